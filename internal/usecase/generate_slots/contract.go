package generate_slots

import (
	"context"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	BulkCreate(ctx context.Context, slots []*domain.TimeSlot) (int64, error)
}

// HoursRepository интерфейс репозитория расписания работы
type HoursRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) ([]*domain.OperatingHours, error)
}

// AuditRecorder интерфейс журнала аудита
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
