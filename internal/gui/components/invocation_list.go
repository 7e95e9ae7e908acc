package components

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// Invocation is one row of the developer-tools log.
type Invocation struct {
	ID       string
	Command  string
	Duration time.Duration
	Err      string
	At       time.Time
}

func (i Invocation) String() string {
	status := "ok"
	if i.Err != "" {
		status = "error: " + i.Err
	}
	return fmt.Sprintf("%s  %-16s %8s  %s", i.At.Format("15:04:05.000"), i.Command, i.Duration.Round(time.Microsecond), status)
}

// InvocationList keeps a bounded, newest-last history and renders it as a list.
type InvocationList struct {
	mu    sync.RWMutex
	items []Invocation
	limit int
	List  *widget.List
}

func NewInvocationList(limit int) *InvocationList {
	l := &InvocationList{limit: limit}
	l.List = widget.NewList(
		l.Len,
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if item, ok := l.At(id); ok {
				obj.(*widget.Label).SetText(item.String())
			}
		},
	)
	return l
}

// Append records inv without refreshing; call Refresh on the UI goroutine.
func (l *InvocationList) Append(inv Invocation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, inv)
	if l.limit > 0 && len(l.items) > l.limit {
		l.items = append([]Invocation(nil), l.items[len(l.items)-l.limit:]...)
	}
}

func (l *InvocationList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

func (l *InvocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *InvocationList) At(i int) (Invocation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return Invocation{}, false
	}
	return l.items[i], true
}

func (l *InvocationList) Items() []Invocation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Invocation(nil), l.items...)
}

func (l *InvocationList) Refresh() {
	l.List.Refresh()
	if n := l.Len(); n > 0 {
		l.List.ScrollToBottom()
	}
}
