package commands

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/logger"
)

const DefaultAutoSaveInterval = 30 * time.Second

// Emitter pushes named events to the front-end.
type Emitter interface {
	Emit(name string, payload any) bridge.Event
}

// AutoSave emits AutoSaveTrigger on a fixed interval. Only one timer runs at
// a time: starting again replaces the previous one.
type AutoSave struct {
	emitter Emitter
	logger  logger.Logger

	mu       sync.Mutex
	stop     chan struct{}
	wg       sync.WaitGroup
	interval time.Duration
}

func NewAutoSave(emitter Emitter, log logger.Logger) *AutoSave {
	if log == nil {
		log = logger.NoOp{}
	}
	return &AutoSave{
		emitter:  emitter,
		logger:   log,
		interval: DefaultAutoSaveInterval,
	}
}

func (a *AutoSave) Start(interval time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("auto-save interval must be positive, got %s", interval)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()

	stop := make(chan struct{})
	a.stop = stop
	a.interval = interval

	a.wg.Add(1)
	go a.loop(interval, stop)

	a.logger.Info("AutoSave", "auto-save started", map[string]interface{}{
		"interval": interval.String(),
	})
	return nil
}

// Stop cancels the timer and reports whether one was running.
func (a *AutoSave) Stop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	running := a.stopLocked()
	if running {
		a.logger.Info("AutoSave", "auto-save stopped", nil)
	}
	return running
}

func (a *AutoSave) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stop != nil
}

// Interval is the current interval, or the last one used once stopped.
func (a *AutoSave) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

func (a *AutoSave) Shutdown() {
	a.Stop()
}

func (a *AutoSave) stopLocked() bool {
	if a.stop == nil {
		return false
	}
	close(a.stop)
	a.stop = nil
	a.wg.Wait()
	return true
}

func (a *AutoSave) loop(interval time.Duration, stop <-chan struct{}) {
	defer a.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.emitter.Emit(AutoSaveTrigger, nil)
		case <-stop:
			return
		}
	}
}
