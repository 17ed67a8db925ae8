package generate_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
)

// UseCase use case генерации слотов по расписанию работы мойки
type UseCase struct {
	slotRepo  SlotRepository
	hoursRepo HoursRepository
	auditRepo AuditRecorder
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	hoursRepo HoursRepository,
	auditRepo AuditRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:  slotRepo,
		hoursRepo: hoursRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Execute генерирует слоты за диапазон дат по недельному расписанию
// Повторный запуск за тот же период безопасен: существующие слоты не
// трогаются, добавляются только недостающие
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: tenant=%d, period=%s..%s",
		req.TenantID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	duration := domain.DefaultSlotDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	capacity := domain.DefaultSlotCapacity
	if req.MaxCapacity != nil {
		capacity = *req.MaxCapacity
	}

	// 2. Загружаем недельное расписание мойки
	hours, err := uc.hoursRepo.GetByTenant(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to load operating hours for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to load operating hours: %w", ErrInternal, err)
	}
	if len(hours) == 0 {
		uc.logger.Warn("GenerateSlots: tenant=%d has no operating hours configured", req.TenantID)
		return nil, ErrNoOperatingHours
	}

	byDay := make(map[int]*domain.OperatingHours, len(hours))
	for _, h := range hours {
		byDay[h.DayOfWeek] = h
	}

	// 3. Вычисляем слоты по дням диапазона
	slots := buildSlots(req.TenantID, req.StartDate, req.EndDate, duration, capacity, byDay)
	if len(slots) == 0 {
		uc.logger.Info("GenerateSlots: tenant=%d, no working days in range", req.TenantID)
		return &Response{Created: 0, Total: 0}, nil
	}

	// 4. Вставляем, пропуская уже существующие слоты
	created, err := uc.slotRepo.BulkCreate(ctx, slots)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to insert slots for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to insert slots: %w", ErrInternal, err)
	}

	uc.recordAudit(ctx, req, created, len(slots))
	uc.logger.Info("GenerateSlots: tenant=%d, created=%d of %d computed slots", req.TenantID, created, len(slots))
	return &Response{Created: created, Total: len(slots)}, nil
}

// buildSlots вычисляет слоты для каждого рабочего дня диапазона
// Неполный слот в конце рабочего дня не создаётся
func buildSlots(
	tenantID int64,
	startDate, endDate time.Time,
	duration, capacity int,
	byDay map[int]*domain.OperatingHours,
) []*domain.TimeSlot {
	var slots []*domain.TimeSlot

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		day, ok := byDay[domain.WeekdayIndex(date)]
		if !ok || day.IsClosed {
			continue
		}

		start := day.OpenTime
		for {
			end, err := start.AddMinutes(duration)
			if err != nil {
				// Слот вышел бы за полночь
				break
			}
			if end.IsAfter(day.CloseTime) {
				break
			}

			slots = append(slots, &domain.TimeSlot{
				TenantID:    tenantID,
				SlotDate:    date,
				StartTime:   start,
				EndTime:     end,
				MaxCapacity: capacity,
				Status:      domain.SlotAvailable,
			})

			start = end
		}
	}

	return slots
}

// recordAudit пишет запись аудита, не прерывая основную операцию при ошибке
func (uc *UseCase) recordAudit(ctx context.Context, req *Request, created int64, total int) {
	err := uc.auditRepo.Record(ctx, audit.Entry{
		ActorID:    req.ActorID,
		TenantID:   &req.TenantID,
		Action:     "slot.generate",
		EntityType: "time_slot",
		NewValues: map[string]interface{}{
			"startDate": req.StartDate.Format(domain.DateFormat),
			"endDate":   req.EndDate.Format(domain.DateFormat),
			"created":   created,
			"total":     total,
		},
	})
	if err != nil {
		uc.logger.Warn("GenerateSlots: failed to record audit for tenant=%d: %v", req.TenantID, err)
	}
}
