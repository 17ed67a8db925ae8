package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

var (
	// ErrInvalidDayOfWeek возвращается при дне недели вне диапазона [0..6]
	ErrInvalidDayOfWeek = errors.New("day of week must be in range 0..6")

	// ErrInvalidHoursRange возвращается, когда время открытия не раньше времени закрытия
	ErrInvalidHoursRange = errors.New("open time must be before close time")
)

// OperatingHours represents a tenant's open/close times for one weekday
// Day 0 is Sunday. The full set is replaced atomically on every manager update
type OperatingHours struct {
	TenantID  int64
	DayOfWeek int // 0 = Sunday .. 6 = Saturday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsClosed  bool
}

// Validate checks day range and that open < close for non-closed days
func (h *OperatingHours) Validate() error {
	if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
		return fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, h.DayOfWeek)
	}

	if h.IsClosed {
		return nil
	}

	if err := h.OpenTime.Validate(); err != nil {
		return err
	}
	if err := h.CloseTime.Validate(); err != nil {
		return err
	}

	if !h.OpenTime.IsBefore(h.CloseTime) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidHoursRange, h.OpenTime, h.CloseTime)
	}

	return nil
}

// WeekdayIndex возвращает индекс дня недели даты в нумерации расписания (0 = воскресенье)
func WeekdayIndex(date time.Time) int {
	return int(date.Weekday())
}
