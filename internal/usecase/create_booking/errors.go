package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: time slot not found")

	// ErrSlotWrongTenant возвращается, когда слот принадлежит другой мойке
	ErrSlotWrongTenant = errors.New("create_booking: slot belongs to another tenant")

	// ErrSlotBlocked возвращается, когда слот закрыт менеджером
	ErrSlotBlocked = errors.New("create_booking: slot is blocked")

	// ErrSlotFull возвращается, когда в слоте не осталось свободных мест
	ErrSlotFull = errors.New("create_booking: slot is full")

	// ErrSlotInPast возвращается при попытке забронировать прошедший слот
	ErrSlotInPast = errors.New("create_booking: slot is in the past")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceUnavailable возвращается, когда услуга отключена или принадлежит другой мойке
	ErrServiceUnavailable = errors.New("create_booking: service is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
