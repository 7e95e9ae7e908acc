package gui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"chronicle-builder/internal/buildmode"
	"chronicle-builder/internal/debug"
	"chronicle-builder/internal/gui/components"
	"chronicle-builder/internal/logger"
)

type Manager struct {
	windows    *Registry
	window     fyne.Window
	debugCoord debug.Coordinator
	logger     logger.Logger
	dispatch   func(func())

	mu         sync.Mutex
	devTools   *DevTools
	isShutdown bool

	statusBar  *components.StatusBar
	storyPanel *components.StoryPanel
}

func NewManager(fyneApp fyne.App, debugCoord debug.Coordinator) *Manager {
	return &Manager{
		windows:    NewRegistry(fyneApp),
		debugCoord: debugCoord,
		logger:     debugCoord.Logger(),
		dispatch:   fyne.Do,
		statusBar:  components.NewStatusBar(buildmode.Name()),
		storyPanel: components.NewStoryPanel(),
	}
}

// SetDispatcher replaces how UI updates are scheduled. Defaults to fyne.Do.
func (m *Manager) SetDispatcher(dispatch func(func())) {
	m.dispatch = dispatch
}

// CreateMainWindow creates the primary window under label and installs the workspace view.
func (m *Manager) CreateMainWindow(label, title string, size fyne.Size) (fyne.Window, error) {
	window, err := m.windows.Create(label, title)
	if err != nil {
		return nil, err
	}

	window.SetContent(m.GetMainContainer())
	window.Resize(size)
	window.SetMaster()
	window.CenterOnScreen()
	m.window = window

	m.logger.Info("GUIManager", "main window created", map[string]interface{}{
		"label":  label,
		"width":  size.Width,
		"height": size.Height,
	})
	return window, nil
}

func (m *Manager) Windows() *Registry {
	return m.windows
}

func (m *Manager) GetWindow() fyne.Window {
	return m.window
}

func (m *Manager) GetMainContainer() *fyne.Container {
	return container.NewBorder(
		nil,
		m.statusBar.GetContainer(),
		nil, nil,
		m.storyPanel.GetContainer(),
	)
}

func (m *Manager) StoryPanel() *components.StoryPanel {
	return m.storyPanel
}

func (m *Manager) StatusBar() *components.StatusBar {
	return m.statusBar
}

func (m *Manager) SetGreetHandler(handler func(string)) {
	m.storyPanel.SetGreetHandler(func(name string) {
		m.logger.Debug("GUIManager", "greet requested", nil)
		handler(name)
	})
}

func (m *Manager) SetSaveHandler(handler func(string)) {
	m.storyPanel.SetSaveHandler(func(data string) {
		m.logger.Debug("GUIManager", "save requested", map[string]interface{}{
			"bytes": len(data),
		})
		handler(data)
	})
}

func (m *Manager) SetLoadHandler(handler func()) {
	m.storyPanel.SetLoadHandler(func() {
		m.logger.Debug("GUIManager", "load requested", nil)
		handler()
	})
}

func (m *Manager) UpdateStatus(status string) {
	m.dispatch(func() {
		m.statusBar.SetStatus(status)
	})
}

func (m *Manager) ShowResult(result string) {
	m.dispatch(func() {
		m.storyPanel.SetResult(result)
	})
}

func (m *Manager) SetVersion(text string) {
	m.dispatch(func() {
		m.statusBar.SetVersion(text)
	})
}

// ClearStory empties the story editor.
func (m *Manager) ClearStory() {
	m.dispatch(func() {
		m.storyPanel.SetStory("")
	})
}

// WithStory reads the story text on the UI goroutine and passes it to f.
func (m *Manager) WithStory(f func(string)) {
	m.dispatch(func() {
		f(m.storyPanel.Story())
	})
}

// ShowInformation opens an information dialog over the main window.
func (m *Manager) ShowInformation(title, message string) {
	m.dispatch(func() {
		if m.window != nil {
			dialog.ShowInformation(title, message, m.window)
		}
	})
}

func (m *Manager) ShowError(title string, err error) {
	m.logger.Error("GUIManager", err, map[string]interface{}{
		"title": title,
	})

	m.dispatch(func() {
		m.statusBar.SetStatus(title)
		if m.window != nil {
			dialog.ShowError(err, m.window)
		}
	})
}

// OpenDevTools shows the inspector window, creating it on first use.
func (m *Manager) OpenDevTools(label, title string) (*DevTools, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.devTools != nil {
		m.devTools.Show()
		return m.devTools, nil
	}

	window, err := m.windows.Create(label, title)
	if err != nil {
		return nil, err
	}

	dt := NewDevTools(window, m.debugCoord, m.dispatch)
	window.SetOnClosed(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		dt.Detach()
		m.windows.Remove(label)
		m.devTools = nil
	})
	m.devTools = dt
	dt.Show()

	m.logger.Info("GUIManager", "developer tools opened", nil)
	return dt, nil
}

func (m *Manager) DevTools() *DevTools {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.devTools
}

func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isShutdown {
		return
	}
	m.isShutdown = true

	if m.devTools != nil {
		m.devTools.Detach()
	}
	m.logger.Info("GUIManager", "shutdown initiated", nil)
}
