package core

const (
	ConsumerTag = "notification-subscriber"

	// in seconds for one message to be stored
	WaitTime = 10
)
