package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	bookingsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/bookings"
	"github.com/m04kA/SMC-WashBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-WashBookingService/pkg/ptr"
)

// Service сервис для чтения бронирований и управления их статусом
// Создание и отмена вынесены в отдельные usecase, так как требуют
// сериализуемых транзакций над инвентарём слотов
type Service struct {
	bookingRepo  BookingRepository
	auditRepo    AuditRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	auditRepo AuditRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		auditRepo:    auditRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, менеджер - бронирования своей мойки
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, requesterID int64, managerTenantID *int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%d", id, requesterID)

	details, err := s.bookingRepo.GetDetailsByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if managerTenantID != nil {
		if details.TenantID != *managerTenantID {
			s.logger.Warn("GetByID: booking id=%s belongs to tenant=%d, requested by tenant=%d",
				id, details.TenantID, *managerTenantID)
			return nil, ErrAccessDenied
		}
	} else if details.CustomerID != requesterID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%s", requesterID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainDetails(details), nil
}

// GetCustomerBookings получает историю бронирований клиента с пагинацией
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: customer=%d, status=%v", req.CustomerID, req.Status)

	var status *domain.BookingStatus
	if req.Status != nil {
		converted, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &converted
	}

	limit, offset := normalizePage(req.Limit, req.Offset)
	list, total, err := s.bookingRepo.ListByCustomer(ctx, req.CustomerID, status, limit, offset)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: customer=%d, page=%d of total=%d", req.CustomerID, len(list), total)
	return models.FromDomainDetailsList(list, total, limit, offset), nil
}

// GetTenantBookings получает бронирования мойки с фильтрацией и пагинацией
//
// Примеры использования:
// - Все бронирования: GetTenantBookings(ctx, &GetTenantBookingsRequest{TenantID: 42})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Только подтверждённые: указать Status = "confirmed"
func (s *Service) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTenantBookings: tenant=%d, status=%v", req.TenantID, req.Status)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("GetTenantBookings: endDate before startDate for tenant=%d", req.TenantID)
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	req.Limit, req.Offset = normalizePage(req.Limit, req.Offset)
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantBookings: invalid status=%s for tenant=%d", *req.Status, req.TenantID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	list, total, err := s.bookingRepo.ListByTenant(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetTenantBookings: tenant=%d, page=%d of total=%d", req.TenantID, len(list), total)
	return models.FromDomainDetailsList(list, total, filter.Limit, filter.Offset), nil
}

// UpdateStatus переводит бронирование в новый статус по таблице переходов
// Отмена через этот метод запрещена: отмена освобождает место в слоте
// и выполняется отдельной операцией
// При завершении неоплаченного бронирования оплата помечается как paid
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, tenantID, actorID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking=%s, tenant=%d, target=%s", id, tenantID, req.Status)

	target, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: unknown status=%s for booking=%s", req.Status, id)
		return nil, ErrInvalidStatus
	}
	if target == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation requested through status update for booking=%s", id)
		return nil, fmt.Errorf("%w: use the cancellation operation to cancel", ErrInvalidStatus)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
	}

	if booking.TenantID != tenantID {
		s.logger.Warn("UpdateStatus: booking=%s belongs to tenant=%d, requested by tenant=%d", id, booking.TenantID, tenantID)
		return nil, ErrAccessDenied
	}

	if booking.IsTerminal() {
		s.logger.Warn("UpdateStatus: booking=%s already terminal, status=%s", id, booking.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrBookingTerminal, booking.Status)
	}

	if !domain.CanTransition(booking.Status, target) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking=%s", booking.Status, target, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
	}

	var paymentStatus *domain.PaymentStatus
	if target == domain.StatusCompleted && booking.PaymentStatus == domain.PaymentPending {
		paymentStatus = ptr.Ptr(domain.PaymentPaid)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, target, paymentStatus)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to update booking=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
	}

	s.recordAudit(ctx, actorID, tenantID, "booking.status_update", id, booking, updated)
	s.logger.Info("UpdateStatus: booking=%s moved %s -> %s", id, booking.Status, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// GetDashboard собирает сводку для панели менеджера мойки
// Счётчики и выручка за сегодня и месяц плюс расписание на сегодня
func (s *Service) GetDashboard(ctx context.Context, tenantID int64) (*models.DashboardResponse, error) {
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats, err := s.bookingRepo.GetTenantStats(ctx, tenantID, today, monthStart)
	if err != nil {
		s.logger.Error("GetDashboard: stats query failed for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetDashboard - stats query: %w", ErrInternal, err)
	}

	schedule, err := s.bookingRepo.GetTodaySchedule(ctx, tenantID, today)
	if err != nil {
		s.logger.Error("GetDashboard: schedule query failed for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetDashboard - schedule query: %w", ErrInternal, err)
	}

	s.logger.Info("GetDashboard: tenant=%d, today=%d bookings", tenantID, stats.TodayCount)
	return models.FromDomainDashboard(stats, schedule), nil
}

// recordAudit пишет запись аудита, не прерывая основную операцию при ошибке
func (s *Service) recordAudit(ctx context.Context, actorID, tenantID int64, action string, bookingID uuid.UUID, oldValues, newValues interface{}) {
	err := s.auditRepo.Record(ctx, audit.Entry{
		ActorID:    actorID,
		TenantID:   &tenantID,
		Action:     action,
		EntityType: "booking",
		EntityID:   bookingID.String(),
		OldValues:  oldValues,
		NewValues:  newValues,
	})
	if err != nil {
		s.logger.Warn("recordAudit: failed to record %s for booking=%s: %v", action, bookingID, err)
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
