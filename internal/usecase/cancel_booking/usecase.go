package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	bookingsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/bookings"
)

// UseCase use case для отмены бронирования
// Отмена освобождает место в слоте: статус бронирования и счётчик слота
// меняются в одной транзакции
type UseCase struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	auditRepo     AuditRecorder
	txManager     TransactionManager
	timeProvider  TimeProvider
	noticeMinutes int
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
// noticeMinutes задаёт окно отмены для клиентов, менеджеров оно не ограничивает
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	auditRepo AuditRecorder,
	txManager TransactionManager,
	noticeMinutes int,
	logger Logger,
) *UseCase {
	if noticeMinutes <= 0 {
		noticeMinutes = domain.DefaultCancellationNoticeMinutes
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		noticeMinutes: noticeMinutes,
		logger:        logger,
	}
}

// Execute выполняет use case отмены бронирования
// Клиент отменяет только свои ожидающие бронирования с соблюдением окна
// отмены, менеджер - любое незавершённое бронирование своей мойки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%s, actor=%d, manager=%v", req.BookingID, req.ActorID, req.TenantID != nil)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 2. Отменяем бронирование и освобождаем место атомарно
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем бронирование с блокировкой строки (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking=%s not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 2.2. Проверяем права инициатора
		if err := uc.checkAccess(booking, req); err != nil {
			return err
		}

		// 2.3. Завершённые бронирования не отменяются
		if booking.IsTerminal() {
			uc.logger.Warn("CancelBooking: booking=%s already terminal, status=%s", req.BookingID, booking.Status)
			return fmt.Errorf("%w: status is %s", ErrAlreadyTerminal, booking.Status)
		}

		// 2.4. Для клиента действуют политика статусов и окно отмены
		if req.TenantID == nil {
			if !booking.CanBeCancelledByCustomer() {
				uc.logger.Warn("CancelBooking: booking=%s in status=%s cannot be cancelled by customer",
					req.BookingID, booking.Status)
				return fmt.Errorf("%w: status is %s", ErrCannotCancelNow, booking.Status)
			}
			if err := uc.checkNoticeWindow(booking, now); err != nil {
				return err
			}
		}

		// 2.5. Помечаем бронирование отменённым
		cancelled, err := uc.bookingRepo.Cancel(txCtx, req.BookingID, req.Reason)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}

		// 2.6. Освобождаем место в слоте
		if _, err := uc.slotRepo.DecrementBooked(txCtx, booking.TimeSlotID); err != nil {
			uc.logger.Error("CancelBooking: failed to release seat in slot=%s: %v", booking.TimeSlotID, err)
			return fmt.Errorf("%w: failed to release seat: %w", ErrInternal, err)
		}

		result = cancelled
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.recordAudit(ctx, req, result)
	uc.logger.Info("CancelBooking: booking=%s cancelled, seat released in slot=%s", result.ID, result.TimeSlotID)

	return &Response{
		ID:                 result.ID,
		CustomerID:         result.CustomerID,
		TenantID:           result.TenantID,
		TimeSlotID:         result.TimeSlotID,
		BookingDate:        result.BookingDate,
		StartTime:          result.StartTime,
		Status:             string(result.Status),
		CancellationReason: result.CancellationReason,
		UpdatedAt:          result.UpdatedAt,
	}, nil
}

// checkAccess проверяет, что инициатор вправе отменить бронирование
func (uc *UseCase) checkAccess(booking *domain.Booking, req *Request) error {
	if req.TenantID != nil {
		if booking.TenantID != *req.TenantID {
			uc.logger.Warn("CancelBooking: booking=%s belongs to tenant=%d, requested by tenant=%d",
				booking.ID, booking.TenantID, *req.TenantID)
			return ErrAccessDenied
		}
		return nil
	}
	if booking.CustomerID != req.ActorID {
		uc.logger.Warn("CancelBooking: booking=%s belongs to customer=%d, requested by customer=%d",
			booking.ID, booking.CustomerID, req.ActorID)
		return ErrAccessDenied
	}
	return nil
}

// checkNoticeWindow проверяет, что до начала слота осталось достаточно времени
func (uc *UseCase) checkNoticeWindow(booking *domain.Booking, now time.Time) error {
	startsAt, err := booking.StartsAt()
	if err != nil {
		uc.logger.Error("CancelBooking: broken start time in booking=%s: %v", booking.ID, err)
		return fmt.Errorf("%w: broken booking start time: %w", ErrInternal, err)
	}
	notice := time.Duration(uc.noticeMinutes) * time.Minute
	if startsAt.Sub(now) < notice {
		uc.logger.Warn("CancelBooking: booking=%s starts at %s, less than %d minutes left",
			booking.ID, startsAt, uc.noticeMinutes)
		return fmt.Errorf("%w: at least %d minutes notice required", ErrTooLateToCancel, uc.noticeMinutes)
	}
	return nil
}

// recordAudit пишет запись аудита, не прерывая основную операцию при ошибке
func (uc *UseCase) recordAudit(ctx context.Context, req *Request, booking *domain.Booking) {
	err := uc.auditRepo.Record(ctx, audit.Entry{
		ActorID:    req.ActorID,
		TenantID:   &booking.TenantID,
		Action:     "booking.cancel",
		EntityType: "booking",
		EntityID:   booking.ID.String(),
		NewValues:  booking,
	})
	if err != nil {
		uc.logger.Warn("CancelBooking: failed to record audit for booking=%s: %v", booking.ID, err)
	}
}

func validateRequest(req *Request) error {
	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorId is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellationReason exceeds %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
