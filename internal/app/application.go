package app

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/buildmode"
	"chronicle-builder/internal/commands"
	"chronicle-builder/internal/config"
	"chronicle-builder/internal/debug"
	"chronicle-builder/internal/gui"
	"chronicle-builder/internal/ipc"
	"chronicle-builder/internal/logger"
	"chronicle-builder/internal/shutdown"
)

const (
	AppName    = "Chronicle Builder"
	AppID      = "com.chroniclebuilder.app"
	AppVersion = "0.1.0"

	MainWindowLabel     = "main"
	DevToolsWindowLabel = "devtools"
	WindowTitle         = "Chronicle Builder - Your Story Workspace"
	DevToolsTitle       = "Chronicle Builder - Developer Tools"
)

// StartupError reports which startup stage failed.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed at %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

type Application struct {
	fyneApp    fyne.App
	cfg        config.Config
	logger     logger.Logger
	debugCoord *debug.DebugCoordinator
	bridge     *bridge.Bridge
	guiManager *gui.Manager
	handlers   *Handlers
	autoSave   *commands.AutoSave
	ipcServer  *ipc.Server
	shutdown   *shutdown.Manager
}

func NewApplication(fyneApp fyne.App, cfg config.Config, log logger.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &StartupError{Stage: "configuration", Err: err}
	}
	if log == nil {
		log = logger.NoOp{}
	}

	debugConfig := debug.ProductionConfig()
	if buildmode.Debug {
		debugConfig = debug.DefaultConfig()
	}
	debugConfig.EventBufferSize = cfg.EventBufferSize
	debugCoord := debug.NewCoordinator(debugConfig, log)

	log.Info("Application", "starting application", map[string]interface{}{
		"version":     AppVersion,
		"build_mode":  buildmode.Name(),
		"ipc_enabled": cfg.IPC.Enabled,
	})

	b := bridge.New(debugCoord)
	autoSave := commands.NewAutoSave(b, log)
	if err := commands.Register(b, commands.NewStory(log), AppVersion); err != nil {
		debugCoord.Shutdown()
		return nil, &StartupError{Stage: "command registration", Err: err}
	}
	if err := commands.RegisterDesktop(b, autoSave, resolvePaths(fyneApp)); err != nil {
		debugCoord.Shutdown()
		return nil, &StartupError{Stage: "command registration", Err: err}
	}

	guiManager := gui.NewManager(fyneApp, debugCoord)
	size := fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight)
	window, err := guiManager.CreateMainWindow(MainWindowLabel, AppName, size)
	if err != nil {
		debugCoord.Shutdown()
		return nil, &StartupError{Stage: "window creation", Err: err}
	}

	application := &Application{
		fyneApp:    fyneApp,
		cfg:        cfg,
		logger:     log,
		debugCoord: debugCoord,
		bridge:     b,
		guiManager: guiManager,
		autoSave:   autoSave,
		ipcServer:  ipc.NewServer(cfg.IPC, b, log, AppVersion),
		shutdown:   shutdown.NewManager(log),
	}
	application.handlers = NewHandlers(application.shutdown.Context(), b, guiManager, log)
	application.setupHandlers()
	application.setupMenus(window)
	application.registerShutdown()

	log.Info("Application", "initialization complete", map[string]interface{}{
		"commands": b.Commands(),
	})
	return application, nil
}

func (a *Application) setupHandlers() {
	a.guiManager.SetGreetHandler(a.handlers.HandleGreet)
	a.guiManager.SetSaveHandler(a.handlers.HandleSave)
	a.guiManager.SetLoadHandler(a.handlers.HandleLoad)
}

// Setup runs once the runtime is configured: it titles the primary window and,
// in debug builds, opens the developer tools.
func (a *Application) Setup() error {
	window, err := a.guiManager.Windows().Lookup(MainWindowLabel)
	if err != nil {
		return &StartupError{Stage: "window lookup", Err: err}
	}

	window.SetTitle(WindowTitle)

	if buildmode.DevToolsEnabled() {
		a.openDevTools()
	}

	a.handlers.HandleVersion()

	a.logger.Info("Application", "setup complete", map[string]interface{}{
		"title":    WindowTitle,
		"devtools": buildmode.DevToolsEnabled(),
	})
	return nil
}

// Run performs setup, starts the IPC endpoint and blocks in the event loop.
// It returns a *StartupError if the main window cannot be found. The IPC
// endpoint is optional: if it cannot bind, the window still opens.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		a.Shutdown()
		return err
	}

	if a.cfg.IPC.Enabled {
		if err := a.ipcServer.Start(); err != nil {
			a.logger.Warning("Application", "ipc endpoint unavailable, continuing without it", map[string]interface{}{
				"addr":  a.cfg.IPC.Addr,
				"error": err.Error(),
			})
		}
	}

	events, _ := a.bridge.Listen()
	go a.forwardEvents(events)

	window := a.guiManager.GetWindow()
	window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.Shutdown()
		window.Close()
	})

	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	go func() {
		select {
		case <-ctx.Done():
			a.logger.Info("Application", "context cancelled, quitting", nil)
			fyne.Do(a.fyneApp.Quit)
		case <-a.shutdown.Done():
		}
	}()

	window.Show()
	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.Shutdown()
	return nil
}

func (a *Application) Bridge() *bridge.Bridge {
	return a.bridge
}

func (a *Application) GUI() *gui.Manager {
	return a.guiManager
}

func (a *Application) IPCServer() *ipc.Server {
	return a.ipcServer
}

func (a *Application) AutoSave() *commands.AutoSave {
	return a.autoSave
}
