package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	generateSlots "github.com/m04kA/SMC-WashBookingService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	StartDate       string `json:"startDate"` // "2026-09-01"
	EndDate         string `json:"endDate"`   // "2026-09-30"
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	MaxCapacity     *int   `json:"maxCapacity,omitempty"`
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	Created int64 `json:"created"`
	Total   int   `json:"total"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(tenantID, actorID int64) (*generateSlots.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &generateSlots.Request{
		TenantID:        tenantID,
		ActorID:         actorID,
		StartDate:       startDate,
		EndDate:         endDate,
		DurationMinutes: r.DurationMinutes,
		MaxCapacity:     r.MaxCapacity,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	return &GenerateSlotsResponse{
		Created: resp.Created,
		Total:   resp.Total,
	}
}
