package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	bookingsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/bookings"
	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingsRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id uuid.UUID, reason string) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingsRepo.ErrBookingNotFound
	}
	f.booking.Status = domain.StatusCancelled
	if reason != "" {
		f.booking.CancellationReason = &reason
	}
	copied := *f.booking
	return &copied, nil
}

type fakeSlotRepo struct {
	decremented []uuid.UUID
}

func (f *fakeSlotRepo) DecrementBooked(_ context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	f.decremented = append(f.decremented, id)
	return &domain.TimeSlot{ID: id}, nil
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

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	slotRepo    *fakeSlotRepo
	auditRepo   *fakeAudit
	bookingID   uuid.UUID
	slotID      uuid.UUID
}

// newFixture собирает usecase с бронированием на 2026-09-15 10:00
// и часами, установленными за 3 часа до начала
func newFixture(status domain.BookingStatus) *fixture {
	bookingID := uuid.New()
	slotID := uuid.New()

	bookingRepo := &fakeBookingRepo{booking: &domain.Booking{
		ID:          bookingID,
		TenantID:    42,
		CustomerID:  100,
		TimeSlotID:  slotID,
		BookingDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		Status:      status,
	}}
	slotRepo := &fakeSlotRepo{}
	auditRepo := &fakeAudit{}

	uc := NewUseCase(bookingRepo, slotRepo, auditRepo, fakeTxManager{}, 120, nopLogger{})
	uc.timeProvider = fixedClock{now: time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)}

	return &fixture{
		uc:          uc,
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		auditRepo:   auditRepo,
		bookingID:   bookingID,
		slotID:      slotID,
	}
}

func TestCancelBooking_CustomerSuccess(t *testing.T) {
	f := newFixture(domain.StatusReserved)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: f.bookingID,
		ActorID:   100,
		Reason:    "планы изменились",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "планы изменились", *resp.CancellationReason)

	require.Len(t, f.slotRepo.decremented, 1)
	assert.Equal(t, f.slotID, f.slotRepo.decremented[0])

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, "booking.cancel", f.auditRepo.entries[0].Action)
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newFixture(domain.StatusReserved)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: uuid.New(), ActorID: 100})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelBooking_ForeignBooking(t *testing.T) {
	f := newFixture(domain.StatusReserved)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: f.bookingID, ActorID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.slotRepo.decremented)
}

func TestCancelBooking_ManagerWrongTenant(t *testing.T) {
	f := newFixture(domain.StatusReserved)

	wrongTenant := int64(77)
	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: f.bookingID,
		ActorID:   5,
		TenantID:  &wrongTenant,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancelBooking_Terminal(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow} {
		f := newFixture(status)

		tenantID := int64(42)
		_, err := f.uc.Execute(context.Background(), &Request{
			BookingID: f.bookingID,
			ActorID:   5,
			TenantID:  &tenantID,
		})
		assert.ErrorIs(t, err, ErrAlreadyTerminal, "status %s", status)
	}
}

func TestCancelBooking_CustomerCannotCancelInProgress(t *testing.T) {
	f := newFixture(domain.StatusInProgress)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: f.bookingID, ActorID: 100})
	assert.ErrorIs(t, err, ErrCannotCancelNow)
}

func TestCancelBooking_CustomerNoticeWindow(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)

	// До начала 90 минут при окне в 120
	f.uc.timeProvider = fixedClock{now: time.Date(2026, 9, 15, 8, 30, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: f.bookingID, ActorID: 100})
	assert.ErrorIs(t, err, ErrTooLateToCancel)
	assert.Empty(t, f.slotRepo.decremented)
}

func TestCancelBooking_ManagerIgnoresNoticeWindow(t *testing.T) {
	f := newFixture(domain.StatusInProgress)

	// Менеджер отменяет за 30 минут до начала и в статусе in_progress
	f.uc.timeProvider = fixedClock{now: time.Date(2026, 9, 15, 9, 30, 0, 0, time.UTC)}

	tenantID := int64(42)
	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: f.bookingID,
		ActorID:   5,
		TenantID:  &tenantID,
		Reason:    "оборудование вышло из строя",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Len(t, f.slotRepo.decremented, 1)
}
