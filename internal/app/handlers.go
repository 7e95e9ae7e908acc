package app

import (
	"context"
	"encoding/json"
	"fmt"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/buildmode"
	"chronicle-builder/internal/commands"
	"chronicle-builder/internal/gui"
	"chronicle-builder/internal/logger"
)

// Handlers connects view callbacks to bridge commands. Invocations run off the
// UI goroutine; results come back through the GUI manager's dispatcher.
type Handlers struct {
	ctx        context.Context
	bridge     *bridge.Bridge
	guiManager *gui.Manager
	logger     logger.Logger
	async      func(func())
}

func NewHandlers(ctx context.Context, b *bridge.Bridge, gm *gui.Manager, log logger.Logger) *Handlers {
	return &Handlers{
		ctx:        ctx,
		bridge:     b,
		guiManager: gm,
		logger:     log,
		async:      func(f func()) { go f() },
	}
}

func (h *Handlers) HandleGreet(name string) {
	h.invoke("Greeting...", commands.Greet, map[string]interface{}{"name": name}, h.guiManager.ShowResult)
}

func (h *Handlers) HandleSave(data string) {
	h.invoke("Saving...", commands.SaveStoryData, map[string]interface{}{"data": data}, h.guiManager.ShowResult)
}

func (h *Handlers) HandleLoad() {
	h.invoke("Loading...", commands.LoadStoryData, nil, h.guiManager.ShowResult)
}

func (h *Handlers) HandleVersion() {
	h.invoke("", commands.GetAppVersion, nil, func(version string) {
		h.guiManager.SetVersion(fmt.Sprintf("v%s (%s)", version, buildmode.Name()))
	})
}

func (h *Handlers) invoke(status, command string, args map[string]interface{}, onResult func(string)) {
	if status != "" {
		h.guiManager.UpdateStatus(status)
	}

	h.async(func() {
		payload, err := json.Marshal(args)
		if err != nil {
			h.guiManager.ShowError("Command failed", err)
			return
		}

		res, err := h.bridge.Invoke(h.ctx, command, payload)
		if err != nil {
			h.guiManager.ShowError("Command failed", err)
			return
		}

		onResult(fmt.Sprint(res.Value))
		if status != "" {
			h.guiManager.UpdateStatus("Ready")
		}
	})
}
