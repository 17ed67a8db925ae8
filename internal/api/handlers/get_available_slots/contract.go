package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

type SlotService interface {
	ListAvailable(ctx context.Context, req *models.ListSlotsRequest) (*models.AvailableSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
