package device

import "errors"

var (
	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrNotConnected indicates the vacuum link is not available
	ErrNotConnected = errors.New("controller not connected")

	// ErrValidation indicates a request payload failed schema validation
	ErrValidation = errors.New("validation error")

	// ErrBusy indicates the command queue is full
	ErrBusy = errors.New("controller busy")

	// ErrMaintenance indicates the link is paused for maintenance
	ErrMaintenance = errors.New("maintenance mode active")
)
