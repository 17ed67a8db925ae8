package get_manager_slots

import (
	"context"

	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

type SlotService interface {
	ListForManager(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
