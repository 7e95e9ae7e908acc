package debug

import (
	"chronicle-builder/internal/debug/eventbus"
	"chronicle-builder/internal/debug/timing"
	"chronicle-builder/internal/logger"
)

// EventBusImpl wraps eventbus.Bus to implement EventPublisher interface
type EventBusImpl struct {
	*eventbus.Bus
}

func (e *EventBusImpl) Publish(event Event) {
	e.Bus.Publish(eventbus.Event{
		Type:      event.Type,
		Timestamp: event.Timestamp,
		Data:      event.Data,
		Context:   event.Context,
	})
}

func (e *EventBusImpl) Subscribe(eventType string, handler EventHandler) {
	e.Bus.Subscribe(eventType, &eventHandlerAdapter{handler: handler})
}

func (e *EventBusImpl) Unsubscribe(eventType string, handler EventHandler) {
	e.Bus.Unsubscribe(eventType, &eventHandlerAdapter{handler: handler})
}

type eventHandlerAdapter struct {
	handler EventHandler
}

func (e *eventHandlerAdapter) Handle(event eventbus.Event) {
	e.handler.Handle(Event{
		Type:      event.Type,
		Timestamp: event.Timestamp,
		Data:      event.Data,
		Context:   event.Context,
	})
}

func (e *eventHandlerAdapter) GetID() string {
	return e.handler.GetID()
}

type timingEventBus struct {
	eventBus *EventBusImpl
}

func (t *timingEventBus) Publish(event timing.Event) {
	t.eventBus.Publish(Event{
		Type:      event.Type,
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
}

type DebugCoordinator struct {
	logger        logger.Logger
	timingTracker *timing.Tracker
	eventBus      *EventBusImpl
}

func NewCoordinator(config Config, log logger.Logger) *DebugCoordinator {
	if log == nil || !config.EnableLogging {
		log = logger.NoOp{}
	}

	eventBus := &EventBusImpl{Bus: eventbus.NewBus(config.EventBufferSize, log)}

	var timingBus timing.EventPublisher
	if config.PublishTimingEvents {
		timingBus = &timingEventBus{eventBus: eventBus}
	}
	timingTracker := timing.NewTracker(timingBus)
	timingTracker.SetEnabled(config.EnableTimingTracking)

	return &DebugCoordinator{
		logger:        log,
		timingTracker: timingTracker,
		eventBus:      eventBus,
	}
}

func (dc *DebugCoordinator) Logger() logger.Logger {
	return dc.logger
}

func (dc *DebugCoordinator) TimingTracker() TimingTracker {
	return dc.timingTracker
}

func (dc *DebugCoordinator) EventPublisher() EventPublisher {
	return dc.eventBus
}

func (dc *DebugCoordinator) Shutdown() {
	dc.eventBus.Bus.Shutdown()
}

type Config struct {
	EnableLogging        bool
	EnableTimingTracking bool
	PublishTimingEvents  bool
	EventBufferSize      int
}

func DefaultConfig() Config {
	return Config{
		EnableLogging:        true,
		EnableTimingTracking: true,
		PublishTimingEvents:  true,
		EventBufferSize:      1000,
	}
}

func ProductionConfig() Config {
	return Config{
		EnableLogging:        true,
		EnableTimingTracking: true,
		PublishTimingEvents:  false,
		EventBufferSize:      100,
	}
}
