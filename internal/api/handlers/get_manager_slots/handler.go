package get_manager_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WashBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-WashBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	slotsService "github.com/m04kA/SMC-WashBookingService/internal/service/slots"
	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

const (
	msgInvalidTenantID = "некорректный ID мойки"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidQuery    = "некорректные параметры запроса"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/tenants/{tenantId}/slots?startDate=...&endDate=...&status=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("GET /tenants/{id}/slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	if !middleware.IsManagerOf(r.Context(), tenantID) {
		h.logger.Warn("GET /tenants/{id}/slots - Forbidden: tenant_id=%d", tenantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	query := r.URL.Query()
	startDate, err := time.Parse(domain.DateFormat, query.Get("startDate"))
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/slots - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	endDate, err := time.Parse(domain.DateFormat, query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/slots - Invalid endDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.ListSlotsRequest{
		TenantID:  tenantID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.ListForManager(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidTimeRange), errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/slots - Invalid query: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /tenants/{id}/slots - Failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
