package app

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"chronicle-builder/internal/buildmode"
	"chronicle-builder/internal/commands"
)

const aboutTitle = "About Chronicle Builder"

func shortcut(key fyne.KeyName, mod fyne.KeyModifier) fyne.Shortcut {
	return &desktop.CustomShortcut{KeyName: key, Modifier: mod | fyne.KeyModifierShortcutDefault}
}

func (a *Application) setupMenus(window fyne.Window) {
	emit := func(event string) func() {
		return func() {
			a.bridge.Emit(event, nil)
		}
	}

	newStory := fyne.NewMenuItem("New Story", emit(commands.MenuNewStory))
	newStory.Shortcut = shortcut(fyne.KeyN, 0)
	openStory := fyne.NewMenuItem("Open Story...", emit(commands.MenuOpenStory))
	openStory.Shortcut = shortcut(fyne.KeyO, 0)
	saveStory := fyne.NewMenuItem("Save Story", emit(commands.MenuSaveStory))
	saveStory.Shortcut = shortcut(fyne.KeyS, 0)
	saveStoryAs := fyne.NewMenuItem("Save Story As...", emit(commands.MenuSaveStoryAs))
	saveStoryAs.Shortcut = shortcut(fyne.KeyS, fyne.KeyModifierShift)

	exit := fyne.NewMenuItem("Exit", func() {
		a.logger.Info("Application", "exit requested from menu", nil)
		a.fyneApp.Quit()
	})
	exit.IsQuit = true
	exit.Shortcut = shortcut(fyne.KeyQ, 0)

	fileMenu := fyne.NewMenu("File",
		newStory,
		openStory,
		fyne.NewMenuItemSeparator(),
		saveStory,
		saveStoryAs,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Timeline...", emit(commands.MenuExportTimeline)),
		fyne.NewMenuItem("Export Draft...", emit(commands.MenuExportDraft)),
		fyne.NewMenuItemSeparator(),
		exit,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem(aboutTitle, func() {
			a.guiManager.ShowInformation(aboutTitle, aboutText())
		}),
	)

	menus := []*fyne.Menu{fileMenu}
	if buildmode.DevToolsEnabled() {
		menus = append(menus, fyne.NewMenu("Debug",
			fyne.NewMenuItem("Developer Tools", a.openDevTools),
			fyne.NewMenuItem("Performance Report", func() {
				a.guiManager.ShowInformation("Performance Report", a.performanceReport())
			}),
		))
	}
	menus = append(menus, helpMenu)

	window.SetMainMenu(fyne.NewMainMenu(menus...))

	// The macOS menu bar binds key equivalents itself.
	if runtime.GOOS != "darwin" {
		for _, item := range fileMenu.Items {
			if item.Shortcut == nil || item.IsQuit {
				continue
			}
			action := item.Action
			window.Canvas().AddShortcut(item.Shortcut, func(fyne.Shortcut) { action() })
		}
	}
}

func (a *Application) openDevTools() {
	if _, err := a.guiManager.OpenDevTools(DevToolsWindowLabel, DevToolsTitle); err != nil {
		a.logger.Warning("Application", "developer tools unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (a *Application) performanceReport() string {
	tracker := a.debugCoord.TimingTracker()

	var lines []string
	for _, name := range a.bridge.Commands() {
		timings := tracker.GetTimings(name)
		if len(timings) == 0 {
			continue
		}
		avg := tracker.GetAverageTime(name).Round(time.Microsecond)
		lines = append(lines, fmt.Sprintf("%s: %d calls, avg %s", name, len(timings), avg))
	}
	if len(lines) == 0 {
		return "No commands timed yet"
	}
	return strings.Join(lines, "\n")
}

func aboutText() string {
	return fmt.Sprintf("%s\nYour Story Workspace\nVersion %s", AppName, AppVersion)
}
