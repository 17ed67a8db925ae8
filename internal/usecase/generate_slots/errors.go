package generate_slots

import "errors"

var (
	// ErrNoOperatingHours возвращается, когда у мойки не настроено расписание работы
	ErrNoOperatingHours = errors.New("generate_slots: operating hours are not configured")

	// ErrInvalidDateRange возвращается при некорректном диапазоне дат
	ErrInvalidDateRange = errors.New("generate_slots: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
