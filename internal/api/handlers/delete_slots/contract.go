package delete_slots

import (
	"context"

	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

type SlotService interface {
	DeleteUnbooked(ctx context.Context, actorID int64, req *models.DeleteSlotsRequest) (*models.DeleteSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
