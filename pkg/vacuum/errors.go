package vacuum

import "errors"

var (
	// ErrUnknownCommand indicates a command token outside the vocabulary
	ErrUnknownCommand = errors.New("unknown command")

	// ErrCapacityUnknown indicates no battery capacity has been reported yet
	ErrCapacityUnknown = errors.New("battery capacity unknown")
)
