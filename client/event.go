package client

import (
	"time"

	ai "github.com/spetersoncode/parley"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventRequestStart fires before an API request begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after an API request completes successfully.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when an API request fails after all retries.
	EventRequestError EventType = "request_error"

	// EventRetry fires before a failed attempt is retried.
	EventRetry EventType = "retry"
)

// Event represents an observable occurrence during client operations.
type Event struct {
	Type EventType

	// Operation is "chat" or "chat_stream".
	Operation string

	Provider ai.Provider

	// Model is the model name being used, if known.
	Model string

	// Duration is the elapsed time for completed or failed requests.
	Duration time.Duration

	// Usage is set on EventRequestComplete for chat operations.
	Usage *ai.Usage

	Error error

	// Attempt and Delay are set for EventRetry.
	Attempt int
	Delay   time.Duration

	Timestamp time.Time
}

// emit sends an event without blocking.
func (c *Client) emit(event Event) {
	if c.events == nil {
		return
	}
	event.Provider = c.provider
	event.Timestamp = time.Now()
	select {
	case c.events <- event:
	default:
		// Channel full - don't block
	}
}
