package appointments

import "errors"

var (
	// ErrMissingFields is returned when a booking request omits a required field
	ErrMissingFields = errors.New("please provide all required fields")

	// ErrSlotTaken is returned when a non-cancelled appointment already holds the slot
	ErrSlotTaken = errors.New("this time slot is already booked")

	// ErrAppointmentNotFound is returned when no appointment matches the id
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidStatus is returned when the requested status is not a known value
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition is returned when the status change violates the lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")
)
