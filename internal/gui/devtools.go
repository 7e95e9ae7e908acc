package gui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"chronicle-builder/internal/debug"
	"chronicle-builder/internal/gui/components"
)

const (
	devToolsHistory = 500
	idleActivity    = "Idle"
)

var devToolsEvents = []string{
	debug.EventCommandInvoked,
	debug.EventTimingStarted,
	debug.EventTimingCompleted,
	debug.EventFrontendEmitted,
}

// DevTools is the developer inspector: a live log of command invocations with
// per-command timing averages and the latest timing or front-end event.
type DevTools struct {
	window   fyne.Window
	events   debug.EventPublisher
	timing   debug.TimingTracker
	dispatch func(func())

	list     *components.InvocationList
	summary  *widget.Label
	activity *widget.Label

	mu           sync.Mutex
	counts       map[string]int
	activityText string
	attached     bool
}

func NewDevTools(window fyne.Window, dc debug.Coordinator, dispatch func(func())) *DevTools {
	dt := &DevTools{
		window:   window,
		events:   dc.EventPublisher(),
		timing:   dc.TimingTracker(),
		dispatch: dispatch,
		list:     components.NewInvocationList(devToolsHistory),
		summary:  widget.NewLabel("No commands invoked yet"),
		activity: widget.NewLabel(idleActivity),
		counts:   make(map[string]int),

		activityText: idleActivity,
	}

	clearButton := widget.NewButton("Clear", dt.Clear)
	header := container.NewBorder(nil, nil, widget.NewLabel("Command invocations"), clearButton)
	footer := container.NewVBox(dt.activity, dt.summary)

	window.SetContent(container.NewBorder(header, footer, nil, nil, dt.list.List))
	window.Resize(fyne.NewSize(640, 360))

	for _, eventType := range devToolsEvents {
		dt.events.Subscribe(eventType, dt)
	}
	dt.attached = true
	return dt
}

func (dt *DevTools) GetID() string {
	return "devtools-inspector"
}

func (dt *DevTools) Handle(event debug.Event) {
	switch event.Type {
	case debug.EventTimingStarted, debug.EventTimingCompleted:
		dt.handleTiming(event)
	case debug.EventFrontendEmitted:
		name, _ := event.Data["event"].(string)
		delivered, _ := event.Data["delivered"].(int)
		dt.setActivity(fmt.Sprintf("Emitted: %s to %d listener(s)", name, delivered))
	default:
		dt.handleInvocation(event)
	}
}

func (dt *DevTools) handleTiming(event debug.Event) {
	operation, _ := event.Data["operation"].(string)

	text := "Running: " + operation
	if event.Type == debug.EventTimingCompleted {
		duration, _ := event.Data["duration"].(time.Duration)
		text = fmt.Sprintf("Last: %s took %s", operation, duration.Round(time.Microsecond))
	}
	dt.setActivity(text)
}

func (dt *DevTools) setActivity(text string) {
	dt.mu.Lock()
	dt.activityText = text
	dt.mu.Unlock()

	dt.dispatch(func() {
		dt.activity.SetText(text)
	})
}

func (dt *DevTools) handleInvocation(event debug.Event) {
	inv := components.Invocation{At: event.Timestamp}
	inv.ID, _ = event.Data["id"].(string)
	inv.Command, _ = event.Data["command"].(string)
	inv.Duration, _ = event.Data["duration"].(time.Duration)
	inv.Err, _ = event.Data["error"].(string)

	dt.list.Append(inv)

	dt.mu.Lock()
	dt.counts[inv.Command]++
	summary := dt.summaryLocked()
	dt.mu.Unlock()

	dt.dispatch(func() {
		dt.list.Refresh()
		dt.summary.SetText(summary)
	})
}

func (dt *DevTools) Records() []components.Invocation {
	return dt.list.Items()
}

func (dt *DevTools) Summary() string {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	return dt.summaryLocked()
}

// Activity describes the most recent timing or front-end event.
func (dt *DevTools) Activity() string {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	return dt.activityText
}

func (dt *DevTools) Window() fyne.Window {
	return dt.window
}

func (dt *DevTools) Show() {
	dt.window.Show()
}

// Detach stops receiving events. Safe to call more than once.
func (dt *DevTools) Detach() {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	if !dt.attached {
		return
	}
	for _, eventType := range devToolsEvents {
		dt.events.Unsubscribe(eventType, dt)
	}
	dt.attached = false
}

// Clear drops the history. Must run on the UI goroutine.
func (dt *DevTools) Clear() {
	dt.mu.Lock()
	dt.counts = make(map[string]int)
	dt.activityText = idleActivity
	dt.mu.Unlock()

	dt.list.Clear()
	dt.list.Refresh()
	dt.summary.SetText("No commands invoked yet")
	dt.activity.SetText(idleActivity)
}

func (dt *DevTools) summaryLocked() string {
	if len(dt.counts) == 0 {
		return "No commands invoked yet"
	}

	names := make([]string, 0, len(dt.counts))
	for name := range dt.counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		avg := dt.timing.GetAverageTime(name).Round(time.Microsecond)
		parts = append(parts, fmt.Sprintf("%s: %d (avg %s)", name, dt.counts[name], avg))
	}
	return strings.Join(parts, " | ")
}
