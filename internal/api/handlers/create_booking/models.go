package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-WashBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TenantID   int64   `json:"tenantId"`
	TimeSlotID string  `json:"timeSlotId"`
	ServiceID  int64   `json:"serviceId"`
	Notes      *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            string  `json:"id"`
	CustomerID    int64   `json:"customerId"`
	TenantID      int64   `json:"tenantId"`
	ServiceID     int64   `json:"serviceId"`
	TimeSlotID    string  `json:"timeSlotId"`
	BookingDate   string  `json:"bookingDate"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	TotalAmount   float64 `json:"totalAmount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	ServiceName   string  `json:"serviceName"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	slotID, err := uuid.Parse(r.TimeSlotID)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID: customerID,
		TenantID:   r.TenantID,
		TimeSlotID: slotID,
		ServiceID:  r.ServiceID,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID.String(),
		CustomerID:    resp.CustomerID,
		TenantID:      resp.TenantID,
		ServiceID:     resp.ServiceID,
		TimeSlotID:    resp.TimeSlotID.String(),
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		TotalAmount:   resp.TotalAmount,
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		ServiceName:   resp.ServiceName,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
