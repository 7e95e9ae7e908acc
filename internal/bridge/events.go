package bridge

import (
	"time"

	"github.com/google/uuid"

	"chronicle-builder/internal/debug"
)

const listenerBuffer = 32

// Event is pushed from the native side to front-end listeners.
type Event struct {
	ID      uuid.UUID
	Name    string
	Payload any
	At      time.Time
}

// Emit delivers an event to every current listener. A listener whose buffer
// is full misses the event; Emit never blocks.
func (b *Bridge) Emit(name string, payload any) Event {
	ev := Event{
		ID:      uuid.New(),
		Name:    name,
		Payload: payload,
		At:      time.Now(),
	}

	b.lmu.Lock()
	delivered, missed := 0, 0
	if !b.closed {
		for _, ch := range b.listeners {
			select {
			case ch <- ev:
				delivered++
			default:
				missed++
			}
		}
	}
	b.lmu.Unlock()

	fields := map[string]interface{}{
		"id":        ev.ID.String(),
		"event":     name,
		"delivered": delivered,
	}
	if missed > 0 {
		fields["missed"] = missed
		b.logger.Warning("Bridge", "listener buffer full, event skipped", fields)
	} else {
		b.logger.Debug("Bridge", "event emitted", fields)
	}

	b.events.Publish(debug.Event{
		Type:      debug.EventFrontendEmitted,
		Timestamp: ev.At,
		Data: map[string]interface{}{
			"id":        ev.ID.String(),
			"event":     name,
			"delivered": delivered,
		},
	})
	return ev
}

// Listen registers a listener. The returned func removes it and closes the
// channel; it is safe to call more than once. After Close the channel is
// returned already closed.
func (b *Bridge) Listen() (<-chan Event, func()) {
	ch := make(chan Event, listenerBuffer)

	b.lmu.Lock()
	defer b.lmu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := uuid.New()
	b.listeners[id] = ch

	return ch, func() {
		b.lmu.Lock()
		defer b.lmu.Unlock()
		if l, ok := b.listeners[id]; ok {
			delete(b.listeners, id)
			close(l)
		}
	}
}

func (b *Bridge) Listeners() int {
	b.lmu.Lock()
	defer b.lmu.Unlock()
	return len(b.listeners)
}

// Close ends every listener stream. Later Emits reach nobody.
func (b *Bridge) Close() {
	b.lmu.Lock()
	defer b.lmu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.listeners {
		delete(b.listeners, id)
		close(ch)
	}
	b.logger.Debug("Bridge", "event listeners closed", nil)
}

// Shutdown satisfies shutdown.Shutdownable.
func (b *Bridge) Shutdown() {
	b.Close()
}
