package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"reserved to confirmed", StatusReserved, StatusConfirmed, true},
		{"reserved to cancelled", StatusReserved, StatusCancelled, true},
		{"reserved to in_progress", StatusReserved, StatusInProgress, false},
		{"reserved to completed", StatusReserved, StatusCompleted, false},
		{"confirmed to in_progress", StatusConfirmed, StatusInProgress, true},
		{"confirmed to no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, false},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to no_show", StatusInProgress, StatusNoShow, false},
		{"completed is terminal", StatusCompleted, StatusConfirmed, false},
		{"cancelled is terminal", StatusCancelled, StatusReserved, false},
		{"no_show is terminal", StatusNoShow, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	for _, status := range []BookingStatus{StatusReserved, StatusConfirmed, StatusInProgress} {
		b := &Booking{Status: status}
		assert.False(t, b.IsTerminal(), "status %s", status)
	}
	for _, status := range TerminalStatuses {
		b := &Booking{Status: status}
		assert.True(t, b.IsTerminal(), "status %s", status)
	}
}

func TestBooking_CanBeCancelledByCustomer(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusReserved}).CanBeCancelledByCustomer())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelledByCustomer())
	assert.False(t, (&Booking{Status: StatusInProgress}).CanBeCancelledByCustomer())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelledByCustomer())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelledByCustomer())
}

func TestBooking_HoldsSeat(t *testing.T) {
	assert.False(t, (&Booking{Status: StatusCancelled}).HoldsSeat())
	assert.True(t, (&Booking{Status: StatusReserved}).HoldsSeat())
	assert.True(t, (&Booking{Status: StatusNoShow}).HoldsSeat())
}

func TestBooking_StartsAt(t *testing.T) {
	b := &Booking{
		BookingDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
	}

	startsAt, err := b.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), startsAt)
}
