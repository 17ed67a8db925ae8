package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WashBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-WashBookingService/internal/usecase/create_booking"
)

type mockUseCase struct {
	result *createBooking.Response
	err    error

	gotReq *createBooking.Request
}

func (m *mockUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	m.gotReq = req
	return m.result, m.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, uc *mockUseCase, body interface{}, authorized bool) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(raw))
	if authorized {
		req.Header.Set("X-User-ID", "100")
	}

	rec := httptest.NewRecorder()
	handler := NewHandler(uc, nopLogger{})
	middleware.Auth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	return rec
}

func validBody(slotID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		TenantID:   42,
		TimeSlotID: slotID.String(),
		ServiceID:  10,
	}
}

func TestHandle_Created(t *testing.T) {
	slotID := uuid.New()
	uc := &mockUseCase{result: &createBooking.Response{
		ID:         uuid.New(),
		CustomerID: 100,
		TenantID:   42,
		ServiceID:  10,
		TimeSlotID: slotID,
		Status:     "reserved",
	}}

	rec := doRequest(t, uc, validBody(slotID), true)
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.gotReq)
	assert.Equal(t, int64(100), uc.gotReq.CustomerID)
	assert.Equal(t, slotID, uc.gotReq.TimeSlotID)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "reserved", resp.Status)
}

func TestHandle_Unauthorized(t *testing.T) {
	uc := &mockUseCase{}
	rec := doRequest(t, uc, validBody(uuid.New()), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uc.gotReq)
}

func TestHandle_BadSlotID(t *testing.T) {
	body := CreateBookingRequest{TenantID: 42, TimeSlotID: "not-a-uuid", ServiceID: 10}
	rec := doRequest(t, &mockUseCase{}, body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"slot full", createBooking.ErrSlotFull, http.StatusConflict},
		{"slot not found", createBooking.ErrSlotNotFound, http.StatusNotFound},
		{"wrong tenant", createBooking.ErrSlotWrongTenant, http.StatusForbidden},
		{"slot blocked", createBooking.ErrSlotBlocked, http.StatusBadRequest},
		{"slot in past", createBooking.ErrSlotInPast, http.StatusBadRequest},
		{"service not found", createBooking.ErrServiceNotFound, http.StatusNotFound},
		{"service unavailable", createBooking.ErrServiceUnavailable, http.StatusBadRequest},
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &mockUseCase{err: tt.err}, validBody(uuid.New()), true)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
