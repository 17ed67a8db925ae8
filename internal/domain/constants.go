package domain

// Default booking policy values
const (
	DefaultSlotDurationMinutes       = 60
	DefaultSlotCapacity              = 1
	DefaultCancellationNoticeMinutes = 120 // 2 hours
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240 // 4 hours
	MinSlotCapacity        = 1
	MaxSlotCapacity        = 100
	MaxGenerationRangeDays = 92 // ~3 months per generation call

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500

	MaxPageSize     = 100
	DefaultPageSize = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список терминальных статусов бронирований
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// SeatHoldingStatuses список статусов, удерживающих место в слоте
// Используется при сверке booked_count со списком бронирований
var SeatHoldingStatuses = []BookingStatus{
	StatusReserved,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusNoShow,
}
