package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту или мойке
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrAlreadyTerminal возвращается, когда бронирование уже завершено или отменено
	ErrAlreadyTerminal = errors.New("cancel_booking: booking is in terminal status")

	// ErrCannotCancelNow возвращается, когда статус не допускает отмену клиентом
	ErrCannotCancelNow = errors.New("cancel_booking: booking cannot be cancelled in its current status")

	// ErrTooLateToCancel возвращается при нарушении окна отмены
	ErrTooLateToCancel = errors.New("cancel_booking: cancellation window has passed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
