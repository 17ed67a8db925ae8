package cancel_booking

import (
	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	cancelBooking "github.com/m04kA/SMC-WashBookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID                 string  `json:"id"`
	TimeSlotID         string  `json:"timeSlotId"`
	BookingDate        string  `json:"bookingDate"`
	StartTime          string  `json:"startTime"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:                 resp.ID.String(),
		TimeSlotID:         resp.TimeSlotID.String(),
		BookingDate:        resp.BookingDate.Format(domain.DateFormat),
		StartTime:          resp.StartTime.String(),
		Status:             resp.Status,
		CancellationReason: resp.CancellationReason,
	}
}
