package cancel_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/pkg/types"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID uuid.UUID // ID бронирования
	ActorID   int64     // ID инициатора отмены
	TenantID  *int64    // ID мойки, если отменяет менеджер; nil для клиента
	Reason    string    // Причина отмены
}

// Response модель ответа с отменённым бронированием
type Response struct {
	ID         uuid.UUID // ID бронирования
	CustomerID int64     // ID клиента
	TenantID   int64     // ID мойки
	TimeSlotID uuid.UUID // ID слота, в котором освободилось место

	BookingDate time.Time        // Дата бронирования
	StartTime   types.TimeString // Время начала

	Status             string  // Итоговый статус (cancelled)
	CancellationReason *string // Причина отмены

	UpdatedAt time.Time // Время обновления
}
