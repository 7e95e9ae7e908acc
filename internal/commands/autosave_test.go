package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/debug"
)

type emitted struct {
	mu    sync.Mutex
	names []string
}

func (e *emitted) Emit(name string, payload any) bridge.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names = append(e.names, name)
	return bridge.Event{Name: name, Payload: payload}
}

func (e *emitted) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.names)
}

func TestAutoSaveEmitsTriggerUntilStopped(t *testing.T) {
	em := &emitted{}
	as := NewAutoSave(em, nil)
	assert.False(t, as.Running())
	assert.Equal(t, DefaultAutoSaveInterval, as.Interval())

	require.NoError(t, as.Start(5*time.Millisecond))
	assert.True(t, as.Running())

	require.Eventually(t, func() bool { return em.count() >= 3 }, time.Second, time.Millisecond)

	assert.True(t, as.Stop())
	assert.False(t, as.Stop())
	stopped := em.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, em.count())

	em.mu.Lock()
	for _, name := range em.names {
		assert.Equal(t, AutoSaveTrigger, name)
	}
	em.mu.Unlock()
}

func TestAutoSaveRestartReplacesTimer(t *testing.T) {
	as := NewAutoSave(&emitted{}, nil)
	defer as.Shutdown()

	require.NoError(t, as.Start(time.Hour))
	require.NoError(t, as.Start(2*time.Hour))
	assert.Equal(t, 2*time.Hour, as.Interval())
	assert.True(t, as.Running())

	as.Shutdown()
	assert.False(t, as.Running())
}

func TestAutoSaveRejectsNonPositiveInterval(t *testing.T) {
	as := NewAutoSave(&emitted{}, nil)

	assert.Error(t, as.Start(0))
	assert.Error(t, as.Start(-time.Second))
	assert.False(t, as.Running())
}

func newDesktopBridge(t *testing.T) (*bridge.Bridge, *AutoSave) {
	t.Helper()
	dc := debug.NewCoordinator(debug.DefaultConfig(), nil)
	t.Cleanup(dc.Shutdown)

	b := bridge.New(dc)
	as := NewAutoSave(b, nil)
	t.Cleanup(as.Shutdown)

	paths := Paths{UserData: "/data/chronicle", Documents: "/home/writer/Documents"}
	require.NoError(t, RegisterDesktop(b, as, paths))
	return b, as
}

func TestStartAutoSaveDefaultsToThirtySeconds(t *testing.T) {
	b, as := newDesktopBridge(t)

	res, err := b.Invoke(context.Background(), StartAutoSave, nil)
	require.NoError(t, err)
	assert.Equal(t, AutoSaveStatus{Running: true, IntervalMS: 30000}, res.Value)
	assert.Equal(t, 30*time.Second, as.Interval())

	res, err = b.Invoke(context.Background(), StopAutoSave, nil)
	require.NoError(t, err)
	assert.Equal(t, AutoSaveStatus{Running: false, IntervalMS: 30000}, res.Value)
}

func TestStartAutoSaveTriggersListeners(t *testing.T) {
	b, _ := newDesktopBridge(t)
	events, stop := b.Listen()
	defer stop()

	_, err := b.Invoke(context.Background(), StartAutoSave, args(t, map[string]int{"interval": 5}))
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, AutoSaveTrigger, ev.Name)
	case <-time.After(time.Second):
		t.Fatal("no auto-save trigger")
	}
}

func TestStartAutoSaveRejectsBadInterval(t *testing.T) {
	b, as := newDesktopBridge(t)

	for _, raw := range []string{`{"interval":0}`, `{"interval":-10}`, `{"interval":"soon"}`} {
		_, err := b.Invoke(context.Background(), StartAutoSave, []byte(raw))
		assert.True(t, errors.Is(err, bridge.ErrInvalidArgs), "args %s: %v", raw, err)
	}
	assert.False(t, as.Running())
}

func TestPathCommands(t *testing.T) {
	b, _ := newDesktopBridge(t)

	res, err := b.Invoke(context.Background(), GetUserDataPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "/data/chronicle", res.Value)

	res, err = b.Invoke(context.Background(), GetDocumentsPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "/home/writer/Documents", res.Value)
}
