// Package bridge routes named command invocations from the front-end layer to
// native handlers.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"chronicle-builder/internal/debug"
	"chronicle-builder/internal/logger"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidArgs      = errors.New("invalid arguments")
	ErrDuplicateCommand = errors.New("command already registered")
)

// Handler runs a command. args is the raw JSON object sent by the caller.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Command is a named handler plus the argument keys it requires.
type Command struct {
	Name    string
	Params  []string
	Handler Handler
}

// Result is the outcome of a successful invocation.
type Result struct {
	ID       uuid.UUID
	Command  string
	Value    any
	Duration time.Duration
}

type Bridge struct {
	mu       sync.RWMutex
	commands map[string]Command
	logger   logger.Logger
	timing   debug.TimingTracker
	events   debug.EventPublisher

	lmu       sync.Mutex
	listeners map[uuid.UUID]chan Event
	closed    bool
}

func New(debugCoord debug.Coordinator) *Bridge {
	return &Bridge{
		commands:  make(map[string]Command),
		listeners: make(map[uuid.UUID]chan Event),
		logger:    debugCoord.Logger(),
		timing:    debugCoord.TimingTracker(),
		events:    debugCoord.EventPublisher(),
	}
}

func (b *Bridge) Register(cmd Command) error {
	if cmd.Name == "" {
		return errors.New("command name is required")
	}
	if cmd.Handler == nil {
		return errors.Errorf("command %q has no handler", cmd.Name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.commands[cmd.Name]; exists {
		return errors.Wrapf(ErrDuplicateCommand, "register %q", cmd.Name)
	}
	b.commands[cmd.Name] = cmd

	b.logger.Debug("Bridge", "command registered", map[string]interface{}{
		"command": cmd.Name,
		"params":  cmd.Params,
	})
	return nil
}

// Commands lists the registered command names in sorted order.
func (b *Bridge) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.commands))
	for name := range b.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command with a JSON object of arguments. Empty args or
// "null" mean no arguments.
func (b *Bridge) Invoke(ctx context.Context, name string, args []byte) (Result, error) {
	id := uuid.New()

	b.mu.RLock()
	cmd, ok := b.commands[name]
	b.mu.RUnlock()

	if !ok {
		err := errors.Wrapf(ErrUnknownCommand, "invoke %q", name)
		b.record(ctx, id, name, 0, err)
		return Result{}, err
	}

	normalized, err := checkArgs(cmd, args)
	if err != nil {
		b.record(ctx, id, name, 0, err)
		return Result{}, err
	}

	timed := b.timing.StartTiming(ctx, name)
	value, err := cmd.Handler(timed, normalized)
	duration := b.timing.EndTiming(timed)

	if err != nil {
		err = errors.Wrapf(err, "command %q", name)
		b.record(ctx, id, name, duration, err)
		return Result{}, err
	}

	b.record(ctx, id, name, duration, nil)
	return Result{ID: id, Command: name, Value: value, Duration: duration}, nil
}

func (b *Bridge) record(ctx context.Context, id uuid.UUID, name string, duration time.Duration, err error) {
	fields := map[string]interface{}{
		"id":       id.String(),
		"command":  name,
		"duration": duration.String(),
	}
	data := map[string]interface{}{
		"id":       id.String(),
		"command":  name,
		"duration": duration,
	}

	if err != nil {
		data["error"] = err.Error()
		b.logger.Error("Bridge", err, fields)
	} else {
		b.logger.Debug("Bridge", "command invoked", fields)
	}

	b.events.Publish(debug.Event{
		Type:      debug.EventCommandInvoked,
		Timestamp: time.Now(),
		Data:      data,
		Context:   ctx,
	})
}

func checkArgs(cmd Command, args []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, errors.Wrapf(ErrInvalidArgs, "command %q: arguments must be a JSON object", cmd.Name)
	}
	if fields == nil {
		return nil, errors.Wrapf(ErrInvalidArgs, "command %q: arguments must be a JSON object", cmd.Name)
	}

	for _, param := range cmd.Params {
		if _, ok := fields[param]; !ok {
			return nil, errors.Wrapf(ErrInvalidArgs, "command %q missing required key %s", cmd.Name, param)
		}
	}

	return json.RawMessage(trimmed), nil
}
