package debug

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle-builder/internal/logger"
)

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) Handle(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *collector) GetID() string { return "collector" }

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestCoordinatorRoutesTimingEventsToBus(t *testing.T) {
	dc := NewCoordinator(DefaultConfig(), nil)
	defer dc.Shutdown()

	col := &collector{}
	dc.EventPublisher().Subscribe(EventTimingCompleted, col)

	tracker := dc.TimingTracker()
	tracker.EndTiming(tracker.StartTiming(context.Background(), "load_story_data"))

	require.Eventually(t, func() bool { return col.len() == 1 }, time.Second, 5*time.Millisecond)
	col.mu.Lock()
	assert.Equal(t, "load_story_data", col.events[0].Data["operation"])
	col.mu.Unlock()
}

func TestProductionConfigKeepsTimingOffTheBus(t *testing.T) {
	dc := NewCoordinator(ProductionConfig(), logger.NoOp{})
	defer dc.Shutdown()

	col := &collector{}
	dc.EventPublisher().Subscribe(EventTimingCompleted, col)

	tracker := dc.TimingTracker()
	tracker.EndTiming(tracker.StartTiming(context.Background(), "greet"))

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, col.len())
	assert.Len(t, tracker.GetTimings("greet"), 1)
}

func TestDisabledLoggingFallsBackToNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableLogging = false
	dc := NewCoordinator(cfg, logger.NoOp{})
	defer dc.Shutdown()

	assert.IsType(t, logger.NoOp{}, dc.Logger())
}
