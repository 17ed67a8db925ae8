package get_operating_hours

import (
	"context"

	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

type SlotService interface {
	GetOperatingHours(ctx context.Context, tenantID int64) (*models.OperatingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
