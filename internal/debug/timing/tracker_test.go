package timing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type capture struct{ events []Event }

func (c *capture) Publish(event Event) { c.events = append(c.events, event) }

func TestStartEndRecordsDuration(t *testing.T) {
	pub := &capture{}
	tracker := NewTracker(pub)

	ctx := tracker.StartTiming(context.Background(), "greet")
	time.Sleep(2 * time.Millisecond)
	d := tracker.EndTiming(ctx)

	assert.Greater(t, d, time.Duration(0))
	assert.Len(t, tracker.GetTimings("greet"), 1)
	assert.Equal(t, d, tracker.GetAverageTime("greet"))
	if assert.Len(t, pub.events, 2) {
		assert.Equal(t, "timing_started", pub.events[0].Type)
		assert.Equal(t, "timing_completed", pub.events[1].Type)
	}
}

func TestDisabledTrackerRecordsNothing(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.SetEnabled(false)

	ctx := tracker.StartTiming(context.Background(), "greet")
	assert.Zero(t, tracker.EndTiming(ctx))
	assert.Nil(t, tracker.GetTimings("greet"))
	assert.Zero(t, tracker.GetAverageTime("greet"))
}

func TestEndWithoutStartIsIgnored(t *testing.T) {
	tracker := NewTracker(nil)
	assert.Zero(t, tracker.EndTiming(context.Background()))
}

func TestReset(t *testing.T) {
	tracker := NewTracker(nil)
	for _, op := range []string{"a", "b"} {
		tracker.EndTiming(tracker.StartTiming(context.Background(), op))
	}

	tracker.Reset("a")
	assert.Nil(t, tracker.GetTimings("a"))
	assert.Len(t, tracker.GetTimings("b"), 1)

	tracker.Reset("")
	assert.Nil(t, tracker.GetTimings("b"))
}
