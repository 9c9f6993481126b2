package worktime

import "errors"

// Sentinel errors for the domain service and its stores.
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrSessionInverted is returned when a manual session's end does not
	// lie after its start (after overnight wrapping).
	ErrSessionInverted = errors.New("session end must be after start")
)
