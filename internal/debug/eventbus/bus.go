package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"chronicle-builder/internal/logger"
)

type Event struct {
	Type      string
	Timestamp time.Time
	Data      map[string]interface{}
	Context   context.Context
}

type EventHandler interface {
	Handle(event Event)
	GetID() string
}

// Bus fans events out to subscribers from a single worker. Publish never blocks:
// events are dropped when the buffer is full or the bus is shut down.
type Bus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	buffer      chan Event
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	dropped     uint64
	logger      logger.Logger
}

func NewBus(bufferSize int, log logger.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if log == nil {
		log = logger.NoOp{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	bus := &Bus{
		subscribers: make(map[string][]EventHandler),
		buffer:      make(chan Event, bufferSize),
		ctx:         ctx,
		cancel:      cancel,
		logger:      log,
	}

	bus.startWorker()
	return bus
}

func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if b.ctx.Err() != nil {
		return
	}

	select {
	case b.buffer <- event:
	default:
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
	}
}

func (b *Bus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

func (b *Bus) Unsubscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subscribers[eventType]
	for i, h := range handlers {
		if h.GetID() == handler.GetID() {
			b.subscribers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (b *Bus) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Shutdown stops the worker. The buffer is left open so late publishers never panic.
func (b *Bus) Shutdown() {
	b.cancel()
	b.wg.Wait()
}

func (b *Bus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for {
			select {
			case event := <-b.buffer:
				b.dispatchEvent(event)
			case <-b.ctx.Done():
				return
			}
		}
	}()
}

func (b *Bus) dispatchEvent(event Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.subscribers[event.Type]))
	copy(handlers, b.subscribers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.safeHandle(handler, event)
	}
}

// safeHandle keeps one failing subscriber from stopping the worker.
func (b *Bus) safeHandle(h EventHandler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("EventBus", errors.Errorf("handler panic: %v", r), map[string]interface{}{
				"handler":    h.GetID(),
				"event_type": event.Type,
			})
		}
	}()
	h.Handle(event)
}
