package debug

import (
	"context"
	"time"

	"chronicle-builder/internal/logger"
)

// Event types published on the debug bus.
const (
	EventCommandInvoked  = "command_invoked"
	EventTimingStarted   = "timing_started"
	EventTimingCompleted = "timing_completed"
	EventFrontendEmitted = "frontend_event_emitted"
)

// EventPublisher distributes debug events to subscribers without blocking
type EventPublisher interface {
	Publish(event Event)
	Subscribe(eventType string, handler EventHandler)
	Unsubscribe(eventType string, handler EventHandler)
}

// EventHandler processes debug events off the publishing goroutine
type EventHandler interface {
	Handle(event Event)
	GetID() string
}

// Event represents a debug event with contextual data
type Event struct {
	Type      string
	Timestamp time.Time
	Data      map[string]interface{}
	Context   context.Context
}

// TimingTracker measures operation performance
type TimingTracker interface {
	StartTiming(ctx context.Context, operation string) context.Context
	EndTiming(ctx context.Context) time.Duration
	GetTimings(operation string) []time.Duration
	GetAverageTime(operation string) time.Duration
}

// Coordinator combines all debug capabilities
type Coordinator interface {
	Logger() logger.Logger
	TimingTracker() TimingTracker
	EventPublisher() EventPublisher
	Shutdown()
}
