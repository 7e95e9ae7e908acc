package shutdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsInReverseOrderOnce(t *testing.T) {
	m := NewManager(nil)

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}

	m.Register("ipc", record("ipc"))
	m.Register("devtools", record("devtools"))
	m.Register("debug", record("debug"))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"debug", "devtools", "ipc"}, order)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownSkipsStuckComponent(t *testing.T) {
	m := NewManager(nil)
	m.SetStepTimeout(20 * time.Millisecond)

	block := make(chan struct{})
	defer close(block)

	ran := false
	m.Register("fast", Func(func() { ran = true }))
	m.Register("stuck", Func(func() { <-block }))

	start := time.Now()
	m.Shutdown()

	assert.True(t, ran)
	assert.Less(t, time.Since(start), time.Second)
}
