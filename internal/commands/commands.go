// Package commands holds the handlers the front-end can invoke.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/logger"
)

const (
	Greet         = "greet"
	SaveStoryData = "save_story_data"
	LoadStoryData = "load_story_data"
	GetAppVersion = "get_app_version"

	StartAutoSave    = "start_auto_save"
	StopAutoSave     = "stop_auto_save"
	GetUserDataPath  = "get_user_data_path"
	GetDocumentsPath = "get_documents_path"
)

// Events the native side emits to the front-end.
const (
	MenuNewStory       = "menu-new-story"
	MenuOpenStory      = "menu-open-story"
	MenuSaveStory      = "menu-save-story"
	MenuSaveStoryAs    = "menu-save-story-as"
	MenuExportTimeline = "menu-export-timeline"
	MenuExportDraft    = "menu-export-draft"
	AutoSaveTrigger    = "auto-save-trigger"
)

const (
	SaveSuccessMessage = "Data saved successfully"
	LoadSuccessMessage = "Data loaded successfully"
)

// Greeting formats the greeting for name. No validation is applied.
func Greeting(name string) string {
	return fmt.Sprintf("Hello, %s! You've got this!", name)
}

// Story handles story data commands. Persistence is left to front-end storage,
// so both handlers acknowledge without touching disk.
type Story struct {
	logger logger.Logger
}

func NewStory(log logger.Logger) *Story {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Story{logger: log}
}

func (s *Story) Save(_ context.Context, data string) (string, error) {
	s.logger.Debug("Story", "save requested", map[string]interface{}{
		"bytes": len(data),
	})
	return SaveSuccessMessage, nil
}

func (s *Story) Load(_ context.Context) (string, error) {
	s.logger.Debug("Story", "load requested", nil)
	return LoadSuccessMessage, nil
}

type greetArgs struct {
	Name string `json:"name"`
}

type saveArgs struct {
	Data string `json:"data"`
}

type noArgs struct{}

type autoSaveArgs struct {
	// Interval is in milliseconds. Omitted means DefaultAutoSaveInterval.
	Interval *int64 `json:"interval"`
}

// AutoSaveStatus is returned by the auto-save commands.
type AutoSaveStatus struct {
	Running    bool  `json:"running"`
	IntervalMS int64 `json:"interval_ms"`
}

// Paths are the well-known directories reported to the front-end.
type Paths struct {
	UserData  string
	Documents string
}

// Register installs every command on b.
func Register(b *bridge.Bridge, story *Story, version string) error {
	cmds := []bridge.Command{
		{
			Name:   Greet,
			Params: []string{"name"},
			Handler: bridge.Typed(func(_ context.Context, in greetArgs) (string, error) {
				return Greeting(in.Name), nil
			}),
		},
		{
			Name:   SaveStoryData,
			Params: []string{"data"},
			Handler: bridge.Typed(func(ctx context.Context, in saveArgs) (string, error) {
				return story.Save(ctx, in.Data)
			}),
		},
		{
			Name: LoadStoryData,
			Handler: bridge.Typed(func(ctx context.Context, _ noArgs) (string, error) {
				return story.Load(ctx)
			}),
		},
		{
			Name: GetAppVersion,
			Handler: bridge.Typed(func(context.Context, noArgs) (string, error) {
				return version, nil
			}),
		},
	}

	for _, cmd := range cmds {
		if err := b.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDesktop installs the auto-save and path commands on b.
func RegisterDesktop(b *bridge.Bridge, autoSave *AutoSave, paths Paths) error {
	status := func() AutoSaveStatus {
		return AutoSaveStatus{
			Running:    autoSave.Running(),
			IntervalMS: autoSave.Interval().Milliseconds(),
		}
	}

	cmds := []bridge.Command{
		{
			Name: StartAutoSave,
			Handler: bridge.Typed(func(_ context.Context, in autoSaveArgs) (AutoSaveStatus, error) {
				interval := DefaultAutoSaveInterval
				if in.Interval != nil {
					interval = time.Duration(*in.Interval) * time.Millisecond
				}
				if err := autoSave.Start(interval); err != nil {
					return AutoSaveStatus{}, errors.Wrap(bridge.ErrInvalidArgs, err.Error())
				}
				return status(), nil
			}),
		},
		{
			Name: StopAutoSave,
			Handler: bridge.Typed(func(context.Context, noArgs) (AutoSaveStatus, error) {
				autoSave.Stop()
				return status(), nil
			}),
		},
		{
			Name: GetUserDataPath,
			Handler: bridge.Typed(func(context.Context, noArgs) (string, error) {
				return paths.UserData, nil
			}),
		},
		{
			Name: GetDocumentsPath,
			Handler: bridge.Typed(func(context.Context, noArgs) (string, error) {
				return paths.Documents, nil
			}),
		},
	}

	for _, cmd := range cmds {
		if err := b.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}
