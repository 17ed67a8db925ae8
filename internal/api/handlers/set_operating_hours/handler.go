package set_operating_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WashBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-WashBookingService/internal/api/middleware"
	slotsService "github.com/m04kA/SMC-WashBookingService/internal/service/slots"
)

const (
	msgInvalidTenantID    = "некорректный ID мойки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHours       = "некорректное расписание работы"
	msgForbidden          = "доступ запрещен"
	msgMissingUserID      = "отсутствует ID пользователя"
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

// Handle PUT /api/v1/tenants/{tenantId}/operating-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("PUT /tenants/{id}/operating-hours - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /tenants/{id}/operating-hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if !middleware.IsManagerOf(r.Context(), tenantID) {
		h.logger.Warn("PUT /tenants/{id}/operating-hours - Forbidden: tenant_id=%d, user_id=%d", tenantID, actorID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req SetOperatingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{id}/operating-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetOperatingHours(r.Context(), actorID, req.ToServiceRequest(tenantID))
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidHours):
			h.logger.Warn("PUT /tenants/{id}/operating-hours - Invalid hours: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		default:
			h.logger.Error("PUT /tenants/{id}/operating-hours - Failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tenants/{id}/operating-hours - Replaced: tenant_id=%d, entries=%d", tenantID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
