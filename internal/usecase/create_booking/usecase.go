package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	catalogRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/catalog"
	slotsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/slots"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	auditRepo    AuditRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	auditRepo AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Слот читается с блокировкой строки внутри сериализуемой транзакции,
// поэтому параллельные запросы на последнее место получают отказ, а не
// двойную запись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, tenant=%d, slot=%s, service=%d",
		req.CustomerID, req.TenantID, req.TimeSlotID, req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу из каталога
	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	// 3. Услуга должна принадлежать мойке и быть активной
	if service.TenantID != req.TenantID || !service.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%d not available for tenant=%d", req.ServiceID, req.TenantID)
		return nil, ErrServiceUnavailable
	}

	var result *domain.Booking

	// 4. Занимаем место в слоте в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Читаем слот с блокировкой строки (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotsRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot=%s not found", req.TimeSlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot=%s: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// 4.2. Слот должен принадлежать мойке из запроса
		if slot.TenantID != req.TenantID {
			uc.logger.Warn("CreateBooking: slot=%s belongs to tenant=%d, requested tenant=%d",
				req.TimeSlotID, slot.TenantID, req.TenantID)
			return ErrSlotWrongTenant
		}

		// 4.3. Проверяем доступность слота
		if slot.IsBlocked() {
			uc.logger.Warn("CreateBooking: slot=%s is blocked", req.TimeSlotID)
			return ErrSlotBlocked
		}
		if slot.IsAtCapacity() {
			uc.logger.Warn("CreateBooking: slot=%s is full, %d/%d seats taken",
				req.TimeSlotID, slot.BookedCount, slot.MaxCapacity)
			return ErrSlotFull
		}

		// 4.4. Нельзя бронировать прошедший слот
		startsAt, err := slot.StartTime.ToTime(slot.SlotDate)
		if err != nil {
			uc.logger.Error("CreateBooking: broken start time in slot=%s: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: broken slot start time: %w", ErrInternal, err)
		}
		if startsAt.Before(now) {
			uc.logger.Warn("CreateBooking: slot=%s already started at %s", req.TimeSlotID, startsAt)
			return ErrSlotInPast
		}

		// 4.5. Создаем бронирование с фиксацией цены на момент брони
		booking := &domain.Booking{
			TenantID:      req.TenantID,
			CustomerID:    req.CustomerID,
			ServiceID:     req.ServiceID,
			TimeSlotID:    slot.ID,
			BookingDate:   slot.SlotDate,
			StartTime:     slot.StartTime,
			EndTime:       slot.EndTime,
			TotalAmount:   service.Price,
			Status:        domain.StatusReserved,
			PaymentStatus: domain.PaymentPending,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 4.6. Занимаем место в слоте
		if _, err := uc.slotRepo.IncrementBooked(txCtx, slot.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to take seat in slot=%s: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to take seat: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.recordAudit(ctx, req, result)
	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return &Response{
		ID:            result.ID,
		CustomerID:    result.CustomerID,
		TenantID:      result.TenantID,
		ServiceID:     result.ServiceID,
		TimeSlotID:    result.TimeSlotID,
		BookingDate:   result.BookingDate,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		TotalAmount:   result.TotalAmount,
		Status:        string(result.Status),
		PaymentStatus: string(result.PaymentStatus),
		ServiceName:   service.Name,
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// recordAudit пишет запись аудита, не прерывая основную операцию при ошибке
func (uc *UseCase) recordAudit(ctx context.Context, req *Request, booking *domain.Booking) {
	err := uc.auditRepo.Record(ctx, audit.Entry{
		ActorID:    req.CustomerID,
		TenantID:   &req.TenantID,
		Action:     "booking.create",
		EntityType: "booking",
		EntityID:   booking.ID.String(),
		NewValues:  booking,
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to record audit for booking=%s: %v", booking.ID, err)
	}
}
