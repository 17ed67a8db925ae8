package bookings

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
	"github.com/m04kA/SMC-WashBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	details *domain.BookingDetails

	lastLimit  int
	lastOffset int
	lastFilter domain.TenantBookingsFilter

	updatedStatus        *domain.BookingStatus
	updatedPaymentStatus *domain.PaymentStatus

	stats    *domain.DashboardStats
	schedule []*domain.ScheduleEntry
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingsRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetDetailsByID(_ context.Context, id uuid.UUID) (*domain.BookingDetails, error) {
	if f.details == nil || f.details.ID != id {
		return nil, bookingsRepo.ErrBookingNotFound
	}
	copied := *f.details
	return &copied, nil
}

func (f *fakeBookingRepo) ListByCustomer(_ context.Context, _ int64, _ *domain.BookingStatus, limit, offset int) ([]*domain.BookingDetails, int, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return nil, 0, nil
}

func (f *fakeBookingRepo) ListByTenant(_ context.Context, filter domain.TenantBookingsFilter) ([]*domain.BookingDetails, int, error) {
	f.lastFilter = filter
	return nil, 0, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error) {
	f.updatedStatus = &status
	f.updatedPaymentStatus = paymentStatus

	updated := *f.booking
	updated.Status = status
	if paymentStatus != nil {
		updated.PaymentStatus = *paymentStatus
	}
	return &updated, nil
}

func (f *fakeBookingRepo) GetTenantStats(_ context.Context, _ int64, _, _ time.Time) (*domain.DashboardStats, error) {
	return f.stats, nil
}

func (f *fakeBookingRepo) GetTodaySchedule(_ context.Context, _ int64, _ time.Time) ([]*domain.ScheduleEntry, error) {
	return f.schedule, nil
}

type fakeAudit struct {
	entries []audit.Entry
}

func (f *fakeAudit) Record(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
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

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		TenantID:      42,
		CustomerID:    100,
		TimeSlotID:    uuid.New(),
		BookingDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:     types.TimeString("10:00"),
		EndTime:       types.TimeString("11:00"),
		Status:        status,
		PaymentStatus: domain.PaymentPending,
	}
}

func newService(repo *fakeBookingRepo, auditRepo *fakeAudit) *Service {
	clock := fixedClock{now: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)}
	return NewService(repo, auditRepo, clock, nopLogger{})
}

func TestGetByID_CustomerAccess(t *testing.T) {
	booking := testBooking(domain.StatusConfirmed)
	repo := &fakeBookingRepo{details: &domain.BookingDetails{Booking: *booking, ServiceName: "Мойка кузова"}}
	svc := newService(repo, &fakeAudit{})

	resp, err := svc.GetByID(context.Background(), booking.ID, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, booking.ID.String(), resp.ID)
	assert.Equal(t, "Мойка кузова", resp.ServiceName)

	// Чужой клиент не видит бронирование
	_, err = svc.GetByID(context.Background(), booking.ID, 999, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_ManagerAccess(t *testing.T) {
	booking := testBooking(domain.StatusConfirmed)
	repo := &fakeBookingRepo{details: &domain.BookingDetails{Booking: *booking}}
	svc := newService(repo, &fakeAudit{})

	ownTenant := int64(42)
	_, err := svc.GetByID(context.Background(), booking.ID, 5, &ownTenant)
	require.NoError(t, err)

	foreignTenant := int64(77)
	_, err = svc.GetByID(context.Background(), booking.ID, 5, &foreignTenant)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newService(&fakeBookingRepo{}, &fakeAudit{})

	_, err := svc.GetByID(context.Background(), uuid.New(), 100, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetCustomerBookings_PageNormalization(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newService(repo, &fakeAudit{})

	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{CustomerID: 100})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	_, err = svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 100,
		Limit:      500,
		Offset:     -5,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPageSize, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)
}

func TestGetTenantBookings_Filter(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newService(repo, &fakeAudit{})

	status := "confirmed"
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetTenantBookings(context.Background(), &models.GetTenantBookingsRequest{
		TenantID:  42,
		Status:    &status,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.lastFilter.Status)

	// Перевёрнутый период отклоняется
	_, err = svc.GetTenantBookings(context.Background(), &models.GetTenantBookingsRequest{
		TenantID:  42,
		StartDate: &end,
		EndDate:   &start,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_Success(t *testing.T) {
	booking := testBooking(domain.StatusReserved)
	repo := &fakeBookingRepo{booking: booking}
	auditRepo := &fakeAudit{}
	svc := newService(repo, auditRepo)

	resp, err := svc.UpdateStatus(context.Background(), booking.ID, 42, 5, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Nil(t, repo.updatedPaymentStatus)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "booking.status_update", auditRepo.entries[0].Action)
}

func TestUpdateStatus_CompletionMarksPaid(t *testing.T) {
	booking := testBooking(domain.StatusInProgress)
	repo := &fakeBookingRepo{booking: booking}
	svc := newService(repo, &fakeAudit{})

	resp, err := svc.UpdateStatus(context.Background(), booking.ID, 42, 5, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, repo.updatedPaymentStatus)
	assert.Equal(t, domain.PaymentPaid, *repo.updatedPaymentStatus)
}

func TestUpdateStatus_CompletionKeepsPaidPayment(t *testing.T) {
	booking := testBooking(domain.StatusInProgress)
	booking.PaymentStatus = domain.PaymentPaid
	repo := &fakeBookingRepo{booking: booking}
	svc := newService(repo, &fakeAudit{})

	_, err := svc.UpdateStatus(context.Background(), booking.ID, 42, 5, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Nil(t, repo.updatedPaymentStatus)
}

func TestUpdateStatus_CancellationRejected(t *testing.T) {
	booking := testBooking(domain.StatusReserved)
	svc := newService(&fakeBookingRepo{booking: booking}, &fakeAudit{})

	_, err := svc.UpdateStatus(context.Background(), booking.ID, 42, 5, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	booking := testBooking(domain.StatusReserved)
	svc := newService(&fakeBookingRepo{booking: booking}, &fakeAudit{})

	_, err := svc.UpdateStatus(context.Background(), booking.ID, 42, 5, &models.UpdateStatusRequest{Status: "finished"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_WrongTenant(t *testing.T) {
	booking := testBooking(domain.StatusReserved)
	svc := newService(&fakeBookingRepo{booking: booking}, &fakeAudit{})

	_, err := svc.UpdateStatus(context.Background(), booking.ID, 77, 5, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateStatus_Terminal(t *testing.T) {
	booking := testBooking(domain.StatusCompleted)
	svc := newService(&fakeBookingRepo{booking: booking}, &fakeAudit{})

	_, err := svc.UpdateStatus(context.Background(), booking.ID, 42, 5, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrBookingTerminal)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	booking := testBooking(domain.StatusReserved)
	svc := newService(&fakeBookingRepo{booking: booking}, &fakeAudit{})

	_, err := svc.UpdateStatus(context.Background(), booking.ID, 42, 5, &models.UpdateStatusRequest{Status: "in_progress"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetDashboard(t *testing.T) {
	repo := &fakeBookingRepo{
		stats: &domain.DashboardStats{
			TodayCount:     4,
			ConfirmedCount: 2,
			TodayRevenue:   6000,
			TotalRevenue:   120000,
		},
		schedule: []*domain.ScheduleEntry{
			{
				BookingID:    uuid.New(),
				StartTime:    types.TimeString("10:00"),
				EndTime:      types.TimeString("11:00"),
				CustomerName: "Иван Петров",
				ServiceName:  "Мойка кузова",
				Status:       domain.StatusConfirmed,
			},
		},
	}
	svc := newService(repo, &fakeAudit{})

	resp, err := svc.GetDashboard(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TodayCount)
	assert.Equal(t, 6000.0, resp.TodayRevenue)
	require.Len(t, resp.TodaySchedule, 1)
	assert.Equal(t, "Иван Петров", resp.TodaySchedule[0].CustomerName)
}
