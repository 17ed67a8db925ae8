package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе слота
	ErrInvalidStatus = errors.New("invalid slot status")
)

// Request модели

// ListSlotsRequest запрос на получение слотов за период
type ListSlotsRequest struct {
	TenantID  int64     `json:"tenantId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    *string   `json:"status,omitempty"` // Фильтр по статусу (только для менеджера)
}

// UpdateSlotRequest запрос на изменение параметров слота
type UpdateSlotRequest struct {
	MaxCapacity *int    `json:"maxCapacity,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// DeleteSlotsRequest запрос на удаление незабронированных слотов за период
type DeleteSlotsRequest struct {
	TenantID  int64     `json:"tenantId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// OperatingHoursEntry одна запись недельного расписания
type OperatingHoursEntry struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	OpenTime  string `json:"openTime"`  // "09:00", пустая строка для выходного
	CloseTime string `json:"closeTime"` // "18:00"
	IsClosed  bool   `json:"isClosed"`
}

// SetOperatingHoursRequest запрос на замену недельного расписания
type SetOperatingHoursRequest struct {
	TenantID int64                 `json:"tenantId"`
	Entries  []OperatingHoursEntry `json:"entries"`
}

// Response модели

// SlotResponse ответ с данными слота для менеджера
type SlotResponse struct {
	ID             string `json:"id"`
	TenantID       int64  `json:"tenantId"`
	SlotDate       string `json:"slotDate"`  // "2026-09-15"
	StartTime      string `json:"startTime"` // "10:00"
	EndTime        string `json:"endTime"`   // "11:00"
	MaxCapacity    int    `json:"maxCapacity"`
	BookedCount    int    `json:"bookedCount"`
	AvailableSpots int    `json:"availableSpots"`
	Status         string `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AvailableSlotResponse публичный ответ со свободным слотом
// Не раскрывает внутреннюю загрузку, только остаток мест
type AvailableSlotResponse struct {
	ID             string `json:"id"`
	SlotDate       string `json:"slotDate"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSpots int    `json:"availableSpots"`
}

// SlotListResponse ответ со списком слотов менеджера
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// AvailableSlotListResponse ответ со списком свободных слотов
type AvailableSlotListResponse struct {
	Slots []AvailableSlotResponse `json:"slots"`
}

// DeleteSlotsResponse результат удаления слотов за период
type DeleteSlotsResponse struct {
	Deleted int64 `json:"deleted"`
}

// OperatingHoursResponse ответ с недельным расписанием
type OperatingHoursResponse struct {
	TenantID int64                 `json:"tenantId"`
	Entries  []OperatingHoursEntry `json:"entries"`
}

// Методы конвертации

// ToDomainSlotStatus конвертирует строку в domain.SlotStatus
func ToDomainSlotStatus(s string) (domain.SlotStatus, error) {
	switch domain.SlotStatus(s) {
	case domain.SlotAvailable, domain.SlotFull, domain.SlotBlocked:
		return domain.SlotStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainSlot конвертирует domain модель в DTO менеджера
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:             s.ID.String(),
		TenantID:       s.TenantID,
		SlotDate:       s.SlotDate.Format(domain.DateFormat),
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		MaxCapacity:    s.MaxCapacity,
		BookedCount:    s.BookedCount,
		AvailableSpots: s.AvailableSpots(),
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO менеджера
func FromDomainSlotList(slots []*domain.TimeSlot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, *FromDomainSlot(s))
	}
	return resp
}

// FromDomainAvailableSlots конвертирует список слотов в публичные DTO
// Слоты без свободных мест отбрасываются
func FromDomainAvailableSlots(slots []*domain.TimeSlot) *AvailableSlotListResponse {
	resp := &AvailableSlotListResponse{
		Slots: make([]AvailableSlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		spots := s.AvailableSpots()
		if s.Status != domain.SlotAvailable || spots == 0 {
			continue
		}
		resp.Slots = append(resp.Slots, AvailableSlotResponse{
			ID:             s.ID.String(),
			SlotDate:       s.SlotDate.Format(domain.DateFormat),
			StartTime:      s.StartTime.String(),
			EndTime:        s.EndTime.String(),
			AvailableSpots: spots,
		})
	}
	return resp
}

// ToDomainHours конвертирует записи расписания в domain модели
func ToDomainHours(tenantID int64, entries []OperatingHoursEntry) []*domain.OperatingHours {
	hours := make([]*domain.OperatingHours, 0, len(entries))
	for _, e := range entries {
		hours = append(hours, &domain.OperatingHours{
			TenantID:  tenantID,
			DayOfWeek: e.DayOfWeek,
			OpenTime:  types.TimeString(e.OpenTime),
			CloseTime: types.TimeString(e.CloseTime),
			IsClosed:  e.IsClosed,
		})
	}
	return hours
}

// FromDomainHours конвертирует недельное расписание в DTO
func FromDomainHours(tenantID int64, hours []*domain.OperatingHours) *OperatingHoursResponse {
	resp := &OperatingHoursResponse{
		TenantID: tenantID,
		Entries:  make([]OperatingHoursEntry, 0, len(hours)),
	}
	for _, h := range hours {
		resp.Entries = append(resp.Entries, OperatingHoursEntry{
			DayOfWeek: h.DayOfWeek,
			OpenTime:  h.OpenTime.String(),
			CloseTime: h.CloseTime.String(),
			IsClosed:  h.IsClosed,
		})
	}
	return resp
}
