package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusReserved   BookingStatus = "reserved"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// statusTransitions таблица допустимых переходов статусов
// Переход в cancelled разрешен таблицей, но выполняется только через отмену
// (со списанием места в слоте), а не через прямое обновление статуса
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusReserved:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// CanTransition returns true if the status change from -> to is allowed
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Booking represents a car wash booking occupying one seat in a time slot
type Booking struct {
	ID         uuid.UUID
	TenantID   int64
	CustomerID int64
	ServiceID  int64
	TimeSlotID uuid.UUID

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	// TotalAmount is snapshotted from the service price at booking time;
	// later price changes do not affect existing bookings
	TotalAmount   float64
	Status        BookingStatus
	PaymentStatus PaymentStatus

	CancellationReason *string
	Notes              *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// HoldsSeat returns true if the booking contributes to its slot's booked count
func (b *Booking) HoldsSeat() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelledByCustomer returns true if a customer may cancel the booking
// (the cancellation window policy is checked separately)
func (b *Booking) CanBeCancelledByCustomer() bool {
	return b.Status == StatusReserved || b.Status == StatusConfirmed
}

// StartsAt combines the booking date and start time into a full moment
func (b *Booking) StartsAt() (time.Time, error) {
	return b.StartTime.ToTime(b.BookingDate)
}

// BookingDetails is a booking enriched with joined display data for list views
type BookingDetails struct {
	Booking

	ServiceName   string
	ServicePrice  float64
	CustomerName  string
	CustomerEmail string
}

// TenantBookingsFilter фильтр для получения бронирований мойки
type TenantBookingsFilter struct {
	TenantID  int64          // Обязательный параметр
	Status    *BookingStatus // Фильтр по статусу (опционально)
	StartDate *time.Time     // Начало периода (опционально)
	EndDate   *time.Time     // Конец периода (опционально)
	Limit     int
	Offset    int
}

// ScheduleEntry is one row of a tenant's same-day schedule view
type ScheduleEntry struct {
	BookingID    uuid.UUID
	StartTime    types.TimeString
	EndTime      types.TimeString
	CustomerName string
	ServiceName  string
	Status       BookingStatus
}

// DashboardStats read-only rollups derived from bookings
type DashboardStats struct {
	TodayCount      int
	UpcomingCount   int
	ConfirmedCount  int
	InProgressCount int
	CompletedCount  int

	TodayRevenue   float64
	MonthlyRevenue float64
	TotalRevenue   float64
}
