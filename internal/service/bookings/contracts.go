package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetDetailsByID(ctx context.Context, id uuid.UUID) (*domain.BookingDetails, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.BookingStatus, limit, offset int) ([]*domain.BookingDetails, int, error)
	ListByTenant(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.BookingDetails, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error)
	GetTenantStats(ctx context.Context, tenantID int64, today, monthStart time.Time) (*domain.DashboardStats, error)
	GetTodaySchedule(ctx context.Context, tenantID int64, day time.Time) ([]*domain.ScheduleEntry, error)
}

// AuditRecorder интерфейс журнала аудита
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// TimeProvider интерфейс для получения текущего времени
// Позволяет подменять время в тестах
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
