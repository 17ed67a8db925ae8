package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlot_AvailableSpots(t *testing.T) {
	assert.Equal(t, 3, (&TimeSlot{MaxCapacity: 5, BookedCount: 2}).AvailableSpots())
	assert.Equal(t, 0, (&TimeSlot{MaxCapacity: 2, BookedCount: 2}).AvailableSpots())

	// Уменьшение вместимости ниже загрузки не даёт отрицательного остатка
	assert.Equal(t, 0, (&TimeSlot{MaxCapacity: 1, BookedCount: 3}).AvailableSpots())
}

func TestTimeSlot_IsAtCapacity(t *testing.T) {
	assert.False(t, (&TimeSlot{MaxCapacity: 2, BookedCount: 1}).IsAtCapacity())
	assert.True(t, (&TimeSlot{MaxCapacity: 2, BookedCount: 2}).IsAtCapacity())
	assert.True(t, (&TimeSlot{MaxCapacity: 1, BookedCount: 3}).IsAtCapacity())
}

func TestTimeSlot_StatusFromOccupancy(t *testing.T) {
	assert.Equal(t, SlotAvailable, (&TimeSlot{MaxCapacity: 2, BookedCount: 1}).StatusFromOccupancy())
	assert.Equal(t, SlotFull, (&TimeSlot{MaxCapacity: 2, BookedCount: 2}).StatusFromOccupancy())
}

func TestTimeSlot_IsBlocked(t *testing.T) {
	assert.True(t, (&TimeSlot{Status: SlotBlocked}).IsBlocked())
	assert.False(t, (&TimeSlot{Status: SlotFull}).IsBlocked())
}
