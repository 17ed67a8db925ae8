package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WashBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	slotsService "github.com/m04kA/SMC-WashBookingService/internal/service/slots"
	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

const (
	msgInvalidTenantID = "некорректный ID мойки"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange    = "некорректный диапазон дат"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/available-slots?startDate=...&endDate=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid date range: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ListAvailable(r.Context(), &models.ListSlotsRequest{
		TenantID:  tenantID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidTimeRange):
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid range: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /tenants/{id}/available-slots - Failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseDateRange читает startDate и endDate из query параметров
// Не указанный диапазон означает ближайшие 7 дней
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	rawStart := r.URL.Query().Get("startDate")
	rawEnd := r.URL.Query().Get("endDate")

	if rawStart == "" && rawEnd == "" {
		today := time.Now().Truncate(24 * time.Hour)
		return today, today.AddDate(0, 0, 7), nil
	}

	startDate, err := time.Parse(domain.DateFormat, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := time.Parse(domain.DateFormat, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startDate, endDate, nil
}
