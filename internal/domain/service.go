package domain

import "time"

// Service represents a car wash service from the tenant's catalog
// Read-only input to booking: the price is snapshotted into the booking,
// the duration is informational
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	Price           float64
	DurationMinutes int
	BufferMinutes   int
	IsActive        bool
	SortOrder       int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the service can be booked
func (s *Service) IsBookable() bool {
	return s.IsActive
}
