package generate_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WashBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-WashBookingService/internal/api/middleware"
	generateSlots "github.com/m04kA/SMC-WashBookingService/internal/usecase/generate_slots"
)

const (
	msgInvalidTenantID    = "некорректный ID мойки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "некорректный диапазон дат"
	msgNoOperatingHours   = "расписание работы мойки не настроено"
	msgForbidden          = "доступ запрещен"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("POST /tenants/{id}/slots/generate - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants/{id}/slots/generate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if !middleware.IsManagerOf(r.Context(), tenantID) {
		h.logger.Warn("POST /tenants/{id}/slots/generate - Forbidden: tenant_id=%d, user_id=%d", tenantID, actorID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID, actorID)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/slots/generate - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrNoOperatingHours):
			h.logger.Warn("POST /tenants/{id}/slots/generate - No operating hours: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgNoOperatingHours)

		case errors.Is(err, generateSlots.ErrInvalidDateRange):
			h.logger.Warn("POST /tenants/{id}/slots/generate - Invalid range: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/slots/generate - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /tenants/{id}/slots/generate - Failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/slots/generate - Generated: tenant_id=%d, created=%d, total=%d",
		tenantID, result.Created, result.Total)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
