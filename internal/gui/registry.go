package gui

import (
	"sort"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
)

var (
	ErrWindowNotFound = errors.New("window not found")
	ErrWindowExists   = errors.New("window already exists")
)

// Registry tracks the application's windows by a fixed label.
type Registry struct {
	app     fyne.App
	mu      sync.RWMutex
	windows map[string]fyne.Window
}

func NewRegistry(app fyne.App) *Registry {
	return &Registry{
		app:     app,
		windows: make(map[string]fyne.Window),
	}
}

func (r *Registry) Create(label, title string) (fyne.Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.windows[label]; exists {
		return nil, errors.Wrapf(ErrWindowExists, "create %q", label)
	}
	w := r.app.NewWindow(title)
	r.windows[label] = w
	return w, nil
}

func (r *Registry) Lookup(label string) (fyne.Window, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.windows[label]
	if !ok {
		return nil, errors.Wrapf(ErrWindowNotFound, "lookup %q", label)
	}
	return w, nil
}

// Remove forgets the window without closing it.
func (r *Registry) Remove(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, label)
}

func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.windows))
	for label := range r.windows {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
