package app

import (
	"context"
	"time"

	"chronicle-builder/internal/shutdown"
)

const ipcShutdownTimeout = 5 * time.Second

// registerShutdown orders teardown: components registered first stop last, so
// the debug coordinator outlives everything that publishes to it. Event
// listeners close before the IPC server so open streams let it drain.
// The command context is cancelled before any component stops.
func (a *Application) registerShutdown() {
	a.shutdown.Register("debug coordinator", a.debugCoord)
	a.shutdown.Register("gui manager", a.guiManager)
	a.shutdown.Register("ipc server", shutdown.Func(func() {
		ctx, cancel := context.WithTimeout(context.Background(), ipcShutdownTimeout)
		defer cancel()
		if err := a.ipcServer.Shutdown(ctx); err != nil {
			a.logger.Error("Lifecycle", err, nil)
		}
	}))
	a.shutdown.Register("event listeners", a.bridge)
	a.shutdown.Register("auto-save", a.autoSave)
}

// Shutdown tears the application down once; later calls are no-ops.
func (a *Application) Shutdown() {
	a.shutdown.Shutdown()
}

func (a *Application) Done() <-chan struct{} {
	return a.shutdown.Done()
}
