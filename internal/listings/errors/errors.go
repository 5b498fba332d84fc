package errors

import "errors"

var (
	ErrNotFound = errors.New("listing not found")

	ErrInvalidID = errors.New("invalid listing ID format")

	ErrRoomNotFound = errors.New("room not found in listing")

	ErrInactive = errors.New("listing is not active")
)
