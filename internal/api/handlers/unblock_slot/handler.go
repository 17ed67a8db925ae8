package unblock_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WashBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-WashBookingService/internal/api/middleware"
	slotsService "github.com/m04kA/SMC-WashBookingService/internal/service/slots"
)

const (
	msgInvalidTenantID = "некорректный ID мойки"
	msgInvalidSlotID   = "некорректный ID слота"
	msgSlotNotFound    = "слот не найден"
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

// Handle POST /api/v1/tenants/{tenantId}/slots/{slotId}/unblock
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("POST /tenants/{id}/slots/{slotId}/unblock - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}
	slotID, err := uuid.Parse(vars["slotId"])
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/slots/{slotId}/unblock - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants/{id}/slots/{slotId}/unblock - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if !middleware.IsManagerOf(r.Context(), tenantID) {
		h.logger.Warn("POST /tenants/{id}/slots/{slotId}/unblock - Forbidden: tenant_id=%d, user_id=%d", tenantID, actorID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.Unblock(r.Context(), slotID, tenantID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("POST /tenants/{id}/slots/{slotId}/unblock - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotsService.ErrAccessDenied):
			h.logger.Warn("POST /tenants/{id}/slots/{slotId}/unblock - Access denied: slot_id=%s, tenant_id=%d", slotID, tenantID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /tenants/{id}/slots/{slotId}/unblock - Failed: slot_id=%s, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/slots/{slotId}/unblock - Unblocked: slot_id=%s, tenant_id=%d", slotID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
