package app

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/commands"
)

// forwardEvents lets the native workspace react to the same events the web
// front-end receives. It returns once the bridge closes its listeners.
func (a *Application) forwardEvents(events <-chan bridge.Event) {
	for ev := range events {
		a.handleEvent(ev)
	}
}

func (a *Application) handleEvent(ev bridge.Event) {
	switch ev.Name {
	case commands.MenuNewStory:
		a.guiManager.ClearStory()
		a.guiManager.UpdateStatus("New story")
	case commands.MenuOpenStory:
		a.handlers.HandleLoad()
	case commands.MenuSaveStory, commands.MenuSaveStoryAs, commands.AutoSaveTrigger:
		a.guiManager.WithStory(a.handlers.HandleSave)
	case commands.MenuExportTimeline:
		a.guiManager.UpdateStatus("Timeline export requested")
	case commands.MenuExportDraft:
		a.guiManager.UpdateStatus("Draft export requested")
	}
}

// resolvePaths reports the app's storage root as the user data directory.
// Documents follows XDG_DOCUMENTS_DIR, then ~/Documents.
func resolvePaths(fyneApp fyne.App) commands.Paths {
	paths := commands.Paths{
		UserData: fyneApp.Storage().RootURI().Path(),
	}

	if dir := os.Getenv("XDG_DOCUMENTS_DIR"); dir != "" {
		paths.Documents = dir
	} else if home, err := os.UserHomeDir(); err == nil {
		paths.Documents = filepath.Join(home, "Documents")
	} else {
		paths.Documents = paths.UserData
	}
	return paths
}
