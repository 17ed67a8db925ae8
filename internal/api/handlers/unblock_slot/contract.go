package unblock_slot

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

type SlotService interface {
	Unblock(ctx context.Context, slotID uuid.UUID, tenantID, actorID int64) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
