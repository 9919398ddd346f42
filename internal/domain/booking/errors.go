package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrRoomNotFound            = errors.New("room not found")
	ErrConflict                = errors.New("room is already booked for these dates")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
