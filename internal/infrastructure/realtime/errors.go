package realtime

import "errors"

var (
	// ErrBusClosed is returned by a Bus after Close
	ErrBusClosed = errors.New("realtime bus closed")

	// ErrHubStopped is returned when a connection arrives after the hub stopped
	ErrHubStopped = errors.New("realtime hub stopped")
)
