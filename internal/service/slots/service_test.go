package slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	slotsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/slots"
	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

type fakeSlotRepo struct {
	slots map[uuid.UUID]*domain.TimeSlot

	lastStatusFilter *domain.SlotStatus
	deleted          int64
}

func newFakeSlotRepo(slots ...*domain.TimeSlot) *fakeSlotRepo {
	repo := &fakeSlotRepo{slots: make(map[uuid.UUID]*domain.TimeSlot)}
	for _, s := range slots {
		repo.slots[s.ID] = s
	}
	return repo
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotsRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) ListByTenantAndRange(_ context.Context, tenantID int64, _, _ time.Time, status *domain.SlotStatus) ([]*domain.TimeSlot, error) {
	f.lastStatusFilter = status

	var result []*domain.TimeSlot
	for _, s := range f.slots {
		if s.TenantID != tenantID {
			continue
		}
		if status != nil && s.Status != *status {
			continue
		}
		copied := *s
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeSlotRepo) Update(_ context.Context, id uuid.UUID, maxCapacity *int, status *domain.SlotStatus) (*domain.TimeSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotsRepo.ErrSlotNotFound
	}
	if maxCapacity != nil {
		s.MaxCapacity = *maxCapacity
		if s.Status != domain.SlotBlocked {
			s.Status = s.StatusFromOccupancy()
		}
	}
	if status != nil {
		s.Status = *status
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) Block(_ context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	blocked := domain.SlotBlocked
	return f.Update(context.Background(), id, nil, &blocked)
}

func (f *fakeSlotRepo) Unblock(_ context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotsRepo.ErrSlotNotFound
	}
	s.Status = s.StatusFromOccupancy()
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) DeleteUnbookedByRange(_ context.Context, tenantID int64, _, _ time.Time) (int64, error) {
	var deleted int64
	for id, s := range f.slots {
		if s.TenantID == tenantID && s.BookedCount == 0 {
			delete(f.slots, id)
			deleted++
		}
	}
	f.deleted = deleted
	return deleted, nil
}

type fakeHoursRepo struct {
	hours []*domain.OperatingHours
}

func (f *fakeHoursRepo) GetByTenant(_ context.Context, _ int64) ([]*domain.OperatingHours, error) {
	return f.hours, nil
}

func (f *fakeHoursRepo) ReplaceAll(_ context.Context, _ int64, hours []*domain.OperatingHours) error {
	f.hours = hours
	return nil
}

type fakeAudit struct {
	entries []audit.Entry
}

func (f *fakeAudit) Record(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testSlot(tenantID int64, status domain.SlotStatus, capacity, booked int) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:          uuid.New(),
		TenantID:    tenantID,
		SlotDate:    time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:00"),
		MaxCapacity: capacity,
		BookedCount: booked,
		Status:      status,
	}
}

func testRange() (time.Time, time.Time) {
	return time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
}

func TestListAvailable_OnlyOpenSlots(t *testing.T) {
	available := testSlot(42, domain.SlotAvailable, 2, 1)
	blocked := testSlot(42, domain.SlotBlocked, 2, 0)
	full := testSlot(42, domain.SlotFull, 1, 1)
	repo := newFakeSlotRepo(available, blocked, full)
	svc := NewService(repo, &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	start, end := testRange()
	resp, err := svc.ListAvailable(context.Background(), &models.ListSlotsRequest{
		TenantID:  42,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)

	// Запрос уходит в репозиторий с фильтром available
	require.NotNil(t, repo.lastStatusFilter)
	assert.Equal(t, domain.SlotAvailable, *repo.lastStatusFilter)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, available.ID.String(), resp.Slots[0].ID)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
}

func TestListAvailable_InvalidRange(t *testing.T) {
	svc := NewService(newFakeSlotRepo(), &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	start, end := testRange()
	_, err := svc.ListAvailable(context.Background(), &models.ListSlotsRequest{
		TenantID:  42,
		StartDate: end,
		EndDate:   start,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.ListAvailable(context.Background(), &models.ListSlotsRequest{TenantID: 42})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.ListAvailable(context.Background(), &models.ListSlotsRequest{
		TenantID:  42,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, domain.MaxGenerationRangeDays+1),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestListForManager_StatusFilter(t *testing.T) {
	blocked := testSlot(42, domain.SlotBlocked, 2, 0)
	repo := newFakeSlotRepo(testSlot(42, domain.SlotAvailable, 2, 0), blocked)
	svc := NewService(repo, &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	start, end := testRange()
	status := "blocked"
	resp, err := svc.ListForManager(context.Background(), &models.ListSlotsRequest{
		TenantID:  42,
		StartDate: start,
		EndDate:   end,
		Status:    &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, blocked.ID.String(), resp.Slots[0].ID)

	bad := "closed"
	_, err = svc.ListForManager(context.Background(), &models.ListSlotsRequest{
		TenantID:  42,
		StartDate: start,
		EndDate:   end,
		Status:    &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSlot_Capacity(t *testing.T) {
	slot := testSlot(42, domain.SlotAvailable, 2, 2)
	repo := newFakeSlotRepo(slot)
	auditRepo := &fakeAudit{}
	svc := NewService(repo, &fakeHoursRepo{}, auditRepo, fakeTxManager{}, nopLogger{})

	capacity := 5
	resp, err := svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{MaxCapacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.MaxCapacity)
	assert.Equal(t, 3, resp.AvailableSpots)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "slot.update", auditRepo.entries[0].Action)
}

func TestUpdateSlot_CapacityBelowBooked(t *testing.T) {
	// Бронирования сохраняются, слот уходит в full с нулевым остатком
	slot := testSlot(42, domain.SlotAvailable, 5, 3)
	repo := newFakeSlotRepo(slot)
	svc := NewService(repo, &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	capacity := 2
	resp, err := svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{MaxCapacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotFull), resp.Status)
	assert.Equal(t, 0, resp.AvailableSpots)
	assert.Equal(t, 3, resp.BookedCount)
}

func TestUpdateSlot_CapacityBounds(t *testing.T) {
	slot := testSlot(42, domain.SlotAvailable, 2, 0)
	svc := NewService(newFakeSlotRepo(slot), &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	tooBig := domain.MaxSlotCapacity + 1
	_, err := svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{MaxCapacity: &tooBig})
	assert.ErrorIs(t, err, ErrInvalidInput)

	zero := 0
	_, err = svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{MaxCapacity: &zero})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSlot_Status(t *testing.T) {
	slot := testSlot(42, domain.SlotAvailable, 2, 1)
	repo := newFakeSlotRepo(slot)
	auditRepo := &fakeAudit{}
	svc := NewService(repo, &fakeHoursRepo{}, auditRepo, fakeTxManager{}, nopLogger{})

	blocked := string(domain.SlotBlocked)
	resp, err := svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{Status: &blocked})
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotBlocked), resp.Status)
	require.Len(t, auditRepo.entries, 1)

	// Вместимость и статус меняются одним запросом
	capacity := 4
	available := string(domain.SlotAvailable)
	resp, err = svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{
		MaxCapacity: &capacity,
		Status:      &available,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.MaxCapacity)
	assert.Equal(t, string(domain.SlotAvailable), resp.Status)
}

func TestUpdateSlot_InvalidStatus(t *testing.T) {
	slot := testSlot(42, domain.SlotAvailable, 2, 0)
	svc := NewService(newFakeSlotRepo(slot), &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	bad := "closed"
	_, err := svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSlot_ForeignTenant(t *testing.T) {
	slot := testSlot(99, domain.SlotAvailable, 2, 0)
	svc := NewService(newFakeSlotRepo(slot), &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	capacity := 3
	_, err := svc.UpdateSlot(context.Background(), slot.ID, 42, 7, &models.UpdateSlotRequest{MaxCapacity: &capacity})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestBlockUnblock(t *testing.T) {
	slot := testSlot(42, domain.SlotAvailable, 1, 1)
	repo := newFakeSlotRepo(slot)
	svc := NewService(repo, &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	blocked, err := svc.Block(context.Background(), slot.ID, 42, 7)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotBlocked), blocked.Status)

	// После разблокировки статус выводится из загрузки
	unblocked, err := svc.Unblock(context.Background(), slot.ID, 42, 7)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotFull), unblocked.Status)

	_, err = svc.Block(context.Background(), uuid.New(), 42, 7)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestDeleteUnbooked(t *testing.T) {
	empty := testSlot(42, domain.SlotAvailable, 2, 0)
	booked := testSlot(42, domain.SlotAvailable, 2, 1)
	repo := newFakeSlotRepo(empty, booked)
	auditRepo := &fakeAudit{}
	svc := NewService(repo, &fakeHoursRepo{}, auditRepo, fakeTxManager{}, nopLogger{})

	start, end := testRange()
	resp, err := svc.DeleteUnbooked(context.Background(), 7, &models.DeleteSlotsRequest{
		TenantID:  42,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Deleted)

	_, stillThere := repo.slots[booked.ID]
	assert.True(t, stillThere)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "slot.delete_range", auditRepo.entries[0].Action)
}

func TestSetOperatingHours_ReplacesSchedule(t *testing.T) {
	hoursRepo := &fakeHoursRepo{hours: []*domain.OperatingHours{
		{TenantID: 42, DayOfWeek: 1, OpenTime: "08:00", CloseTime: "20:00"},
	}}
	auditRepo := &fakeAudit{}
	svc := NewService(newFakeSlotRepo(), hoursRepo, auditRepo, fakeTxManager{}, nopLogger{})

	resp, err := svc.SetOperatingHours(context.Background(), 7, &models.SetOperatingHoursRequest{
		TenantID: 42,
		Entries: []models.OperatingHoursEntry{
			{DayOfWeek: 0, IsClosed: true},
			{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	require.Len(t, hoursRepo.hours, 2)
	assert.Equal(t, types.TimeString("09:00"), hoursRepo.hours[1].OpenTime)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "operating_hours.replace", auditRepo.entries[0].Action)
}

func TestSetOperatingHours_Validation(t *testing.T) {
	svc := NewService(newFakeSlotRepo(), &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	// Открытие позже закрытия
	_, err := svc.SetOperatingHours(context.Background(), 7, &models.SetOperatingHoursRequest{
		TenantID: 42,
		Entries: []models.OperatingHoursEntry{
			{DayOfWeek: 1, OpenTime: "18:00", CloseTime: "09:00"},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidHours)

	// День недели вне диапазона
	_, err = svc.SetOperatingHours(context.Background(), 7, &models.SetOperatingHoursRequest{
		TenantID: 42,
		Entries: []models.OperatingHoursEntry{
			{DayOfWeek: 9, IsClosed: true},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidHours)

	// Дубль дня
	_, err = svc.SetOperatingHours(context.Background(), 7, &models.SetOperatingHoursRequest{
		TenantID: 42,
		Entries: []models.OperatingHoursEntry{
			{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00"},
			{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "19:00"},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidHours)
}

func TestGetOperatingHours_EmptyScheduleIsNotAnError(t *testing.T) {
	svc := NewService(newFakeSlotRepo(), &fakeHoursRepo{}, &fakeAudit{}, fakeTxManager{}, nopLogger{})

	resp, err := svc.GetOperatingHours(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, resp.Entries)
}
