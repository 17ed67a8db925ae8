package delete_slots

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
	msgInvalidRange    = "некорректный диапазон дат"
	msgForbidden       = "доступ запрещен"
	msgMissingUserID   = "отсутствует ID пользователя"
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

// Handle DELETE /api/v1/tenants/{tenantId}/slots?startDate=...&endDate=...
// Удаляет только слоты без бронирований
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("DELETE /tenants/{id}/slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /tenants/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if !middleware.IsManagerOf(r.Context(), tenantID) {
		h.logger.Warn("DELETE /tenants/{id}/slots - Forbidden: tenant_id=%d, user_id=%d", tenantID, actorID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	query := r.URL.Query()
	startDate, err := time.Parse(domain.DateFormat, query.Get("startDate"))
	if err != nil {
		h.logger.Warn("DELETE /tenants/{id}/slots - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	endDate, err := time.Parse(domain.DateFormat, query.Get("endDate"))
	if err != nil {
		h.logger.Warn("DELETE /tenants/{id}/slots - Invalid endDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.DeleteUnbooked(r.Context(), actorID, &models.DeleteSlotsRequest{
		TenantID:  tenantID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidTimeRange):
			h.logger.Warn("DELETE /tenants/{id}/slots - Invalid range: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("DELETE /tenants/{id}/slots - Failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /tenants/{id}/slots - Deleted: tenant_id=%d, count=%d", tenantID, result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, result)
}
