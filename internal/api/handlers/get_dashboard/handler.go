package get_dashboard

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WashBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-WashBookingService/internal/api/middleware"
)

const (
	msgInvalidTenantID = "некорректный ID мойки"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/dashboard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("GET /tenants/{id}/dashboard - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	if !middleware.IsManagerOf(r.Context(), tenantID) {
		h.logger.Warn("GET /tenants/{id}/dashboard - Forbidden: tenant_id=%d", tenantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.GetDashboard(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /tenants/{id}/dashboard - Failed: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
