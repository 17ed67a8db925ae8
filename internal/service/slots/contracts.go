package slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error)
	ListByTenantAndRange(ctx context.Context, tenantID int64, startDate, endDate time.Time, status *domain.SlotStatus) ([]*domain.TimeSlot, error)
	Update(ctx context.Context, id uuid.UUID, maxCapacity *int, status *domain.SlotStatus) (*domain.TimeSlot, error)
	Block(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error)
	Unblock(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error)
	DeleteUnbookedByRange(ctx context.Context, tenantID int64, startDate, endDate time.Time) (int64, error)
}

// HoursRepository интерфейс репозитория расписания работы
type HoursRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) ([]*domain.OperatingHours, error)
	ReplaceAll(ctx context.Context, tenantID int64, hours []*domain.OperatingHours) error
}

// AuditRecorder интерфейс журнала аудита
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
