package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrRoomLocked means another request holds the advisory lock for the
	// same room and an overlapping date window.
	ErrRoomLocked = errors.New("room is locked by a concurrent booking attempt")

	ErrOverlap = errors.New("room already booked for an overlapping date range")
)
