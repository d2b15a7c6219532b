package core

import "errors"

var (
	// ErrMalformed marks a delivery that can never be processed and must
	// not be requeued.
	ErrMalformed = errors.New("malformed message")
	ErrUnrouted  = errors.New("no handler for routing key")
)
