package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

// SlotStatus represents the availability status of a time slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotFull      SlotStatus = "full"
	SlotBlocked   SlotStatus = "blocked"
)

// TimeSlot represents one bookable time slot of a tenant with finite capacity
//
// Invariants:
//   - 0 <= BookedCount <= MaxCapacity
//   - (TenantID, SlotDate, StartTime) is unique
//   - Status is blocked only by an explicit manager override; otherwise it is
//     full when BookedCount >= MaxCapacity and available below capacity
type TimeSlot struct {
	ID       uuid.UUID
	TenantID int64

	SlotDate  time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	MaxCapacity int
	BookedCount int
	Status      SlotStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableSpots returns the number of free seats in the slot
func (s *TimeSlot) AvailableSpots() int {
	spots := s.MaxCapacity - s.BookedCount
	if spots < 0 {
		return 0
	}
	return spots
}

// IsBlocked returns true if the slot has been manually blocked
func (s *TimeSlot) IsBlocked() bool {
	return s.Status == SlotBlocked
}

// IsAtCapacity returns true if no seats remain
func (s *TimeSlot) IsAtCapacity() bool {
	return s.BookedCount >= s.MaxCapacity
}

// StatusFromOccupancy возвращает статус слота по занятости, без учета блокировки
// Используется при разблокировке и после списания места
func (s *TimeSlot) StatusFromOccupancy() SlotStatus {
	if s.IsAtCapacity() {
		return SlotFull
	}
	return SlotAvailable
}
