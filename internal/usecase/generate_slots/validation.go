package generate_slots

import (
	"fmt"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidDateRange)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidDateRange)
	}

	days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
	if days > domain.MaxGenerationRangeDays {
		return fmt.Errorf("%w: range of %d days exceeds the limit of %d",
			ErrInvalidDateRange, days, domain.MaxGenerationRangeDays)
	}

	if req.DurationMinutes != nil {
		if *req.DurationMinutes < domain.MinSlotDurationMinutes || *req.DurationMinutes > domain.MaxSlotDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
	}
	if req.MaxCapacity != nil {
		if *req.MaxCapacity < domain.MinSlotCapacity || *req.MaxCapacity > domain.MaxSlotCapacity {
			return fmt.Errorf("%w: maxCapacity must be between %d and %d",
				ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
		}
	}

	return nil
}
