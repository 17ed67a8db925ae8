package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	slotsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/slots"
	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-WashBookingService/pkg/ptr"
)

// Service сервис для работы с инвентарём слотов и расписанием мойки
type Service struct {
	slotRepo  SlotRepository
	hoursRepo HoursRepository
	auditRepo AuditRecorder
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	hoursRepo HoursRepository,
	auditRepo AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:  slotRepo,
		hoursRepo: hoursRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ListAvailable получает свободные слоты мойки за период
// Публичная выборка: возвращает только открытые слоты с остатком мест
func (s *Service) ListAvailable(ctx context.Context, req *models.ListSlotsRequest) (*models.AvailableSlotListResponse, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		s.logger.Warn("ListAvailable: invalid range for tenant=%d: %v", req.TenantID, err)
		return nil, err
	}

	slots, err := s.slotRepo.ListByTenantAndRange(ctx, req.TenantID, req.StartDate, req.EndDate, ptr.Ptr(domain.SlotAvailable))
	if err != nil {
		s.logger.Error("ListAvailable: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListAvailable - repository error: %w", ErrInternal, err)
	}

	resp := models.FromDomainAvailableSlots(slots)
	s.logger.Info("ListAvailable: tenant=%d, period=%s..%s, found=%d",
		req.TenantID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), len(resp.Slots))
	return resp, nil
}

// ListForManager получает все слоты мойки за период, включая заблокированные и заполненные
// Опционально фильтрует по статусу
func (s *Service) ListForManager(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		s.logger.Warn("ListForManager: invalid range for tenant=%d: %v", req.TenantID, err)
		return nil, err
	}

	var status *domain.SlotStatus
	if req.Status != nil {
		converted, err := models.ToDomainSlotStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListForManager: invalid status=%s for tenant=%d", *req.Status, req.TenantID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &converted
	}

	slots, err := s.slotRepo.ListByTenantAndRange(ctx, req.TenantID, req.StartDate, req.EndDate, status)
	if err != nil {
		s.logger.Error("ListForManager: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListForManager - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListForManager: tenant=%d, found=%d slots", req.TenantID, len(slots))
	return models.FromDomainSlotList(slots), nil
}

// UpdateSlot изменяет параметры слота
// Вместимость может быть уменьшена ниже текущей загрузки: существующие
// бронирования сохраняются, слот переходит в статус full
func (s *Service) UpdateSlot(ctx context.Context, slotID uuid.UUID, tenantID, actorID int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: slot=%s, tenant=%d", slotID, tenantID)

	if req.MaxCapacity != nil {
		if *req.MaxCapacity < domain.MinSlotCapacity || *req.MaxCapacity > domain.MaxSlotCapacity {
			s.logger.Warn("UpdateSlot: capacity=%d out of bounds for slot=%s", *req.MaxCapacity, slotID)
			return nil, fmt.Errorf("%w: maxCapacity must be between %d and %d",
				ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
		}
	}

	var status *domain.SlotStatus
	if req.Status != nil {
		converted, err := models.ToDomainSlotStatus(*req.Status)
		if err != nil {
			s.logger.Warn("UpdateSlot: invalid status %q for slot=%s", *req.Status, slotID)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		status = &converted
	}

	current, err := s.getOwnedSlot(ctx, slotID, tenantID, "UpdateSlot")
	if err != nil {
		return nil, err
	}

	updated, err := s.slotRepo.Update(ctx, slotID, req.MaxCapacity, status)
	if err != nil {
		if errors.Is(err, slotsRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("UpdateSlot: repository error for slot=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: UpdateSlot - repository error: %w", ErrInternal, err)
	}

	s.recordAudit(ctx, actorID, tenantID, "slot.update", slotID, current, updated)
	s.logger.Info("UpdateSlot: slot=%s updated, capacity=%d, status=%s", slotID, updated.MaxCapacity, updated.Status)
	return models.FromDomainSlot(updated), nil
}

// Block закрывает слот для новых бронирований
// Существующие бронирования в слоте сохраняются
func (s *Service) Block(ctx context.Context, slotID uuid.UUID, tenantID, actorID int64) (*models.SlotResponse, error) {
	s.logger.Info("Block: slot=%s, tenant=%d", slotID, tenantID)

	current, err := s.getOwnedSlot(ctx, slotID, tenantID, "Block")
	if err != nil {
		return nil, err
	}

	blocked, err := s.slotRepo.Block(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotsRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("Block: repository error for slot=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: Block - repository error: %w", ErrInternal, err)
	}

	s.recordAudit(ctx, actorID, tenantID, "slot.block", slotID, current, blocked)
	s.logger.Info("Block: slot=%s blocked", slotID)
	return models.FromDomainSlot(blocked), nil
}

// Unblock снова открывает слот
// Итоговый статус зависит от загрузки: available либо full
func (s *Service) Unblock(ctx context.Context, slotID uuid.UUID, tenantID, actorID int64) (*models.SlotResponse, error) {
	s.logger.Info("Unblock: slot=%s, tenant=%d", slotID, tenantID)

	current, err := s.getOwnedSlot(ctx, slotID, tenantID, "Unblock")
	if err != nil {
		return nil, err
	}

	unblocked, err := s.slotRepo.Unblock(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotsRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("Unblock: repository error for slot=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: Unblock - repository error: %w", ErrInternal, err)
	}

	s.recordAudit(ctx, actorID, tenantID, "slot.unblock", slotID, current, unblocked)
	s.logger.Info("Unblock: slot=%s, status=%s", slotID, unblocked.Status)
	return models.FromDomainSlot(unblocked), nil
}

// DeleteUnbooked удаляет слоты без бронирований за период
// Слоты с хотя бы одним активным местом не трогаются
func (s *Service) DeleteUnbooked(ctx context.Context, actorID int64, req *models.DeleteSlotsRequest) (*models.DeleteSlotsResponse, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		s.logger.Warn("DeleteUnbooked: invalid range for tenant=%d: %v", req.TenantID, err)
		return nil, err
	}

	deleted, err := s.slotRepo.DeleteUnbookedByRange(ctx, req.TenantID, req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Error("DeleteUnbooked: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: DeleteUnbooked - repository error: %w", ErrInternal, err)
	}

	s.recordAudit(ctx, actorID, req.TenantID, "slot.delete_range", uuid.Nil, nil, map[string]interface{}{
		"startDate": req.StartDate.Format(domain.DateFormat),
		"endDate":   req.EndDate.Format(domain.DateFormat),
		"deleted":   deleted,
	})
	s.logger.Info("DeleteUnbooked: tenant=%d, deleted=%d slots", req.TenantID, deleted)
	return &models.DeleteSlotsResponse{Deleted: deleted}, nil
}

// GetOperatingHours получает недельное расписание мойки
// Пустое расписание не ошибка: мойка ещё не настроена
func (s *Service) GetOperatingHours(ctx context.Context, tenantID int64) (*models.OperatingHoursResponse, error) {
	hours, err := s.hoursRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetOperatingHours: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetOperatingHours - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetOperatingHours: tenant=%d, entries=%d", tenantID, len(hours))
	return models.FromDomainHours(tenantID, hours), nil
}

// SetOperatingHours заменяет недельное расписание мойки целиком
// Замена атомарна: либо применяются все семь дней, либо ни одного
// Уже сгенерированные слоты не пересчитываются
func (s *Service) SetOperatingHours(ctx context.Context, actorID int64, req *models.SetOperatingHoursRequest) (*models.OperatingHoursResponse, error) {
	s.logger.Info("SetOperatingHours: tenant=%d, entries=%d", req.TenantID, len(req.Entries))

	hours := models.ToDomainHours(req.TenantID, req.Entries)
	seen := make(map[int]bool, len(hours))
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			s.logger.Warn("SetOperatingHours: invalid entry day=%d for tenant=%d: %v", h.DayOfWeek, req.TenantID, err)
			return nil, fmt.Errorf("%w: day %d: %w", ErrInvalidHours, h.DayOfWeek, err)
		}
		if seen[h.DayOfWeek] {
			s.logger.Warn("SetOperatingHours: duplicate day=%d for tenant=%d", h.DayOfWeek, req.TenantID)
			return nil, fmt.Errorf("%w: duplicate day %d", ErrInvalidHours, h.DayOfWeek)
		}
		seen[h.DayOfWeek] = true
	}

	previous, err := s.hoursRepo.GetByTenant(ctx, req.TenantID)
	if err != nil {
		s.logger.Error("SetOperatingHours: failed to load current hours for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: SetOperatingHours - repository error: %w", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.hoursRepo.ReplaceAll(ctx, req.TenantID, hours)
	})
	if err != nil {
		s.logger.Error("SetOperatingHours: transaction error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: SetOperatingHours - transaction error: %w", ErrInternal, err)
	}

	s.recordAudit(ctx, actorID, req.TenantID, "operating_hours.replace", uuid.Nil,
		models.FromDomainHours(req.TenantID, previous), models.FromDomainHours(req.TenantID, hours))
	s.logger.Info("SetOperatingHours: tenant=%d schedule replaced", req.TenantID)
	return models.FromDomainHours(req.TenantID, hours), nil
}

// getOwnedSlot загружает слот и проверяет принадлежность мойке
func (s *Service) getOwnedSlot(ctx context.Context, slotID uuid.UUID, tenantID int64, method string) (*domain.TimeSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotsRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot=%s not found", method, slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot=%s: %v", method, slotID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, method, err)
	}
	if slot.TenantID != tenantID {
		s.logger.Warn("%s: slot=%s belongs to tenant=%d, requested by tenant=%d", method, slotID, slot.TenantID, tenantID)
		return nil, ErrAccessDenied
	}
	return slot, nil
}

// recordAudit пишет запись аудита, не прерывая основную операцию при ошибке
func (s *Service) recordAudit(ctx context.Context, actorID, tenantID int64, action string, entityID uuid.UUID, oldValues, newValues interface{}) {
	entry := audit.Entry{
		ActorID:    actorID,
		TenantID:   &tenantID,
		Action:     action,
		EntityType: "time_slot",
		OldValues:  oldValues,
		NewValues:  newValues,
	}
	if action == "operating_hours.replace" {
		entry.EntityType = "operating_hours"
	}
	if entityID != uuid.Nil {
		entry.EntityID = entityID.String()
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.logger.Warn("recordAudit: failed to record %s for tenant=%d: %v", action, tenantID, err)
	}
}

func validateRange(startDate, endDate time.Time) error {
	if startDate.IsZero() || endDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidTimeRange)
	}
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidTimeRange)
	}
	if endDate.Sub(startDate) > time.Duration(domain.MaxGenerationRangeDays)*24*time.Hour {
		return fmt.Errorf("%w: range exceeds %d days", ErrInvalidTimeRange, domain.MaxGenerationRangeDays)
	}
	return nil
}
