package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GetCustomerBookingsRequest запрос на получение истории бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}

// GetTenantBookingsRequest запрос на получение бронирований мойки
type GetTenantBookingsRequest struct {
	TenantID  int64      `json:"tenantId"`
	Status    *string    `json:"status,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{
		TenantID:  r.TenantID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          string `json:"id"`
	TenantID    int64  `json:"tenantId"`
	CustomerID  int64  `json:"customerId"`
	ServiceID   int64  `json:"serviceId"`
	TimeSlotID  string `json:"timeSlotId"`
	BookingDate string `json:"bookingDate"` // "2026-09-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:00"

	TotalAmount   float64 `json:"totalAmount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`

	// Денормализованные данные из смежных таблиц
	ServiceName   string `json:"serviceName,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	Notes              *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse страница бронирований с общим количеством
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ScheduleEntryResponse одна запись расписания на сегодня
type ScheduleEntryResponse struct {
	BookingID    string `json:"bookingId"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CustomerName string `json:"customerName"`
	ServiceName  string `json:"serviceName"`
	Status       string `json:"status"`
}

// DashboardResponse сводка по мойке для панели менеджера
type DashboardResponse struct {
	TodayCount      int `json:"todayCount"`
	UpcomingCount   int `json:"upcomingCount"`
	ConfirmedCount  int `json:"confirmedCount"`
	InProgressCount int `json:"inProgressCount"`
	CompletedCount  int `json:"completedCount"`

	TodayRevenue   float64 `json:"todayRevenue"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	TotalRevenue   float64 `json:"totalRevenue"`

	TodaySchedule []ScheduleEntryResponse `json:"todaySchedule"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusReserved,
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID.String(),
		TenantID:           b.TenantID,
		CustomerID:         b.CustomerID,
		ServiceID:          b.ServiceID,
		TimeSlotID:         b.TimeSlotID.String(),
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		CancellationReason: b.CancellationReason,
		Notes:              b.Notes,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainDetails конвертирует расширенную модель с данными клиента и услуги
func FromDomainDetails(d *domain.BookingDetails) *BookingResponse {
	if d == nil {
		return nil
	}

	resp := FromDomainBooking(&d.Booking)
	resp.ServiceName = d.ServiceName
	resp.CustomerName = d.CustomerName
	resp.CustomerEmail = d.CustomerEmail
	return resp
}

// FromDomainDetailsList конвертирует страницу бронирований в DTO
func FromDomainDetailsList(list []*domain.BookingDetails, total, limit, offset int) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(list)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for _, d := range list {
		resp.Bookings = append(resp.Bookings, *FromDomainDetails(d))
	}
	return resp
}

// FromDomainDashboard собирает сводку панели менеджера
func FromDomainDashboard(stats *domain.DashboardStats, schedule []*domain.ScheduleEntry) *DashboardResponse {
	resp := &DashboardResponse{
		TodayCount:      stats.TodayCount,
		UpcomingCount:   stats.UpcomingCount,
		ConfirmedCount:  stats.ConfirmedCount,
		InProgressCount: stats.InProgressCount,
		CompletedCount:  stats.CompletedCount,
		TodayRevenue:    stats.TodayRevenue,
		MonthlyRevenue:  stats.MonthlyRevenue,
		TotalRevenue:    stats.TotalRevenue,
		TodaySchedule:   make([]ScheduleEntryResponse, 0, len(schedule)),
	}
	for _, e := range schedule {
		resp.TodaySchedule = append(resp.TodaySchedule, ScheduleEntryResponse{
			BookingID:    e.BookingID.String(),
			StartTime:    e.StartTime.String(),
			EndTime:      e.EndTime.String(),
			CustomerName: e.CustomerName,
			ServiceName:  e.ServiceName,
			Status:       string(e.Status),
		})
	}
	return resp
}
