package generate_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

type fakeSlotRepo struct {
	inserted []*domain.TimeSlot
	existing int64 // сколько слотов считать уже существующими
}

func (f *fakeSlotRepo) BulkCreate(_ context.Context, slots []*domain.TimeSlot) (int64, error) {
	f.inserted = slots
	created := int64(len(slots)) - f.existing
	if created < 0 {
		created = 0
	}
	return created, nil
}

type fakeHoursRepo struct {
	hours []*domain.OperatingHours
}

func (f *fakeHoursRepo) GetByTenant(_ context.Context, _ int64) ([]*domain.OperatingHours, error) {
	return f.hours, nil
}

type fakeAudit struct {
	entries []audit.Entry
}

func (f *fakeAudit) Record(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func workingDay(day int, open, close string) *domain.OperatingHours {
	return &domain.OperatingHours{
		TenantID:  42,
		DayOfWeek: day,
		OpenTime:  types.TimeString(open),
		CloseTime: types.TimeString(close),
	}
}

func closedDay(day int) *domain.OperatingHours {
	return &domain.OperatingHours{TenantID: 42, DayOfWeek: day, IsClosed: true}
}

func TestGenerateSlots_SingleDay(t *testing.T) {
	slotRepo := &fakeSlotRepo{}
	auditRepo := &fakeAudit{}
	// 2026-09-14 понедельник
	hoursRepo := &fakeHoursRepo{hours: []*domain.OperatingHours{workingDay(1, "08:00", "10:00")}}
	uc := NewUseCase(slotRepo, hoursRepo, auditRepo, nopLogger{})

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  42,
		ActorID:   7,
		StartDate: day,
		EndDate:   day,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Created)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, slotRepo.inserted, 2)

	first := slotRepo.inserted[0]
	assert.Equal(t, int64(42), first.TenantID)
	assert.Equal(t, types.TimeString("08:00"), first.StartTime)
	assert.Equal(t, types.TimeString("09:00"), first.EndTime)
	assert.Equal(t, domain.DefaultSlotCapacity, first.MaxCapacity)
	assert.Equal(t, domain.SlotAvailable, first.Status)

	second := slotRepo.inserted[1]
	assert.Equal(t, types.TimeString("09:00"), second.StartTime)
	assert.Equal(t, types.TimeString("10:00"), second.EndTime)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "slot.generate", auditRepo.entries[0].Action)
}

func TestGenerateSlots_TrailingPartialSlotDropped(t *testing.T) {
	slotRepo := &fakeSlotRepo{}
	hoursRepo := &fakeHoursRepo{hours: []*domain.OperatingHours{workingDay(1, "09:00", "10:30")}}
	uc := NewUseCase(slotRepo, hoursRepo, &fakeAudit{}, nopLogger{})

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{TenantID: 42, ActorID: 7, StartDate: day, EndDate: day})
	require.NoError(t, err)

	// 09:00-10:00 входит, хвост 10:00-11:00 вышел бы за закрытие
	assert.Equal(t, 1, resp.Total)
	require.Len(t, slotRepo.inserted, 1)
	assert.Equal(t, types.TimeString("10:00"), slotRepo.inserted[0].EndTime)
}

func TestGenerateSlots_ClosingAtMidnightBoundary(t *testing.T) {
	slotRepo := &fakeSlotRepo{}
	hoursRepo := &fakeHoursRepo{hours: []*domain.OperatingHours{workingDay(1, "20:00", "23:00")}}
	uc := NewUseCase(slotRepo, hoursRepo, &fakeAudit{}, nopLogger{})

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{TenantID: 42, ActorID: 7, StartDate: day, EndDate: day})
	require.NoError(t, err)

	// Последний слот 22:00-23:00, кандидат 23:00-24:00 отбрасывается
	assert.Equal(t, 3, resp.Total)
	require.Len(t, slotRepo.inserted, 3)
	assert.Equal(t, types.TimeString("22:00"), slotRepo.inserted[2].StartTime)
	assert.Equal(t, types.TimeString("23:00"), slotRepo.inserted[2].EndTime)

	for _, slot := range slotRepo.inserted {
		_, err := slot.EndTime.Value()
		assert.NoError(t, err)
	}
}

func TestGenerateSlots_ClosedDaysSkipped(t *testing.T) {
	slotRepo := &fakeSlotRepo{}
	hoursRepo := &fakeHoursRepo{hours: []*domain.OperatingHours{
		closedDay(0),
		workingDay(1, "09:00", "11:00"),
	}}
	uc := NewUseCase(slotRepo, hoursRepo, &fakeAudit{}, nopLogger{})

	// Воскресенье 2026-09-13 закрыто, понедельник рабочий, вторник не настроен
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  42,
		ActorID:   7,
		StartDate: time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	for _, slot := range slotRepo.inserted {
		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), slot.SlotDate)
	}
}

func TestGenerateSlots_CustomDurationAndCapacity(t *testing.T) {
	slotRepo := &fakeSlotRepo{}
	hoursRepo := &fakeHoursRepo{hours: []*domain.OperatingHours{workingDay(1, "09:00", "10:00")}}
	uc := NewUseCase(slotRepo, hoursRepo, &fakeAudit{}, nopLogger{})

	duration := 30
	capacity := 3
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:        42,
		ActorID:         7,
		StartDate:       day,
		EndDate:         day,
		DurationMinutes: &duration,
		MaxCapacity:     &capacity,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	for _, slot := range slotRepo.inserted {
		assert.Equal(t, 3, slot.MaxCapacity)
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	// Повторная генерация: часть слотов уже существует
	slotRepo := &fakeSlotRepo{existing: 1}
	hoursRepo := &fakeHoursRepo{hours: []*domain.OperatingHours{workingDay(1, "08:00", "10:00")}}
	uc := NewUseCase(slotRepo, hoursRepo, &fakeAudit{}, nopLogger{})

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{TenantID: 42, ActorID: 7, StartDate: day, EndDate: day})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, int64(1), resp.Created)
}

func TestGenerateSlots_NoOperatingHours(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeHoursRepo{}, &fakeAudit{}, nopLogger{})

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), &Request{TenantID: 42, ActorID: 7, StartDate: day, EndDate: day})
	assert.ErrorIs(t, err, ErrNoOperatingHours)
}

func TestGenerateSlots_Validation(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeHoursRepo{}, &fakeAudit{}, nopLogger{})
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 42, ActorID: 7, StartDate: day, EndDate: day.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = uc.Execute(context.Background(), &Request{
		TenantID:  42,
		ActorID:   7,
		StartDate: day,
		EndDate:   day.AddDate(0, 0, domain.MaxGenerationRangeDays),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	badDuration := 5
	_, err = uc.Execute(context.Background(), &Request{
		TenantID:        42,
		ActorID:         7,
		StartDate:       day,
		EndDate:         day,
		DurationMinutes: &badDuration,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	badCapacity := 0
	_, err = uc.Execute(context.Background(), &Request{
		TenantID:    42,
		ActorID:     7,
		StartDate:   day,
		EndDate:     day,
		MaxCapacity: &badCapacity,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
