package generate_slots

import "time"

// Request модель запроса на генерацию слотов
type Request struct {
	TenantID        int64     // ID мойки
	ActorID         int64     // ID менеджера, запустившего генерацию
	StartDate       time.Time // Первый день диапазона (без времени)
	EndDate         time.Time // Последний день диапазона, включительно
	DurationMinutes *int      // Длительность слота в минутах (по умолчанию 60)
	MaxCapacity     *int      // Вместимость слота (по умолчанию 1)
}

// Response модель ответа с результатом генерации
type Response struct {
	Created int64 // Сколько слотов реально вставлено
	Total   int   // Сколько слотов вычислено по расписанию
}
