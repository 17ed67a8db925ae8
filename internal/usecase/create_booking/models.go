package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64     // ID клиента
	TenantID   int64     // ID мойки из URL запроса
	TimeSlotID uuid.UUID // ID выбранного слота
	ServiceID  int64     // ID услуги из каталога
	Notes      *string   // Пожелания клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         uuid.UUID // ID созданного бронирования
	CustomerID int64     // ID клиента
	TenantID   int64     // ID мойки
	ServiceID  int64     // ID услуги
	TimeSlotID uuid.UUID // ID слота

	BookingDate time.Time        // Дата бронирования
	StartTime   types.TimeString // Время начала
	EndTime     types.TimeString // Время окончания

	TotalAmount   float64 // Зафиксированная цена услуги
	Status        string  // Статус бронирования
	PaymentStatus string  // Статус оплаты

	ServiceName string  // Название услуги на момент бронирования
	Notes       *string // Пожелания клиента

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
