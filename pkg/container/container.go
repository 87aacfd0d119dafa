package container

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vango-dev/observe/pkg/listener"
	"github.com/vango-dev/observe/pkg/structural"
	"github.com/vango-dev/observe/pkg/value"
)

// Readable is the read-only view of a Container.
type Readable interface {
	Get(key string) (any, error)
	Keys() []string
	AddEventListener(key string, fn value.Listener[any]) (listener.Handle, error)
	RemoveEventListener(key string, h listener.Handle) error
}

var _ Readable = (*Container)(nil)

// Container is a fixed set of named observable values.
type Container struct {
	// cells is written only by New.
	cells map[string]*value.Value[any]

	// keys holds the key set in sorted order.
	keys []string
}

// New creates a Container with one value per key of initial.
func New(initial map[string]any, opts ...Option) *Container {
	cfg := config{mode: value.ModeReplace}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default().With("component", "observe")
	}

	c := &Container{
		cells: make(map[string]*value.Value[any], len(initial)),
		keys:  make([]string, 0, len(initial)),
	}
	for key, v := range initial {
		c.cells[key] = value.New(v,
			value.WithName(key),
			value.WithMode(cfg.modeFor(key)),
			value.WithLogger(cfg.logger),
			value.WithHooks(cfg.hooks...),
		)
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)
	return c
}

// Cell returns the value stored under key.
func (c *Container) Cell(key string) (*value.Value[any], error) {
	cell, ok := c.cells[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return cell, nil
}

// Has reports whether key is part of the container.
func (c *Container) Has(key string) bool {
	_, ok := c.cells[key]
	return ok
}

// Keys returns the keys in sorted order.
func (c *Container) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Len returns the number of keys.
func (c *Container) Len() int {
	return len(c.keys)
}

// Get returns the current value of key.
func (c *Container) Get(key string) (any, error) {
	cell, err := c.Cell(key)
	if err != nil {
		return nil, err
	}
	return cell.Get(), nil
}

// Snapshot returns the current value of every key. Maps and slices are
// shallow-copied, so writing into the snapshot does not reach the container.
func (c *Container) Snapshot() map[string]any {
	out := make(map[string]any, len(c.cells))
	for key, cell := range c.cells {
		out[key] = structural.Clone(cell.Get())
	}
	return out
}

// Set writes v to key with the same change rules as value.Value.Set.
// Listener panics are reported as a *listener.DispatchError wrapped with the key.
func (c *Container) Set(key string, v any) error {
	cell, err := c.Cell(key)
	if err != nil {
		return err
	}
	if err := cell.Set(v); err != nil {
		return fmt.Errorf("observe: set %q: %w", key, err)
	}
	return nil
}

// AddEventListener registers fn for changes of key.
func (c *Container) AddEventListener(key string, fn value.Listener[any]) (listener.Handle, error) {
	cell, err := c.Cell(key)
	if err != nil {
		return listener.Handle{}, err
	}
	return cell.On(fn), nil
}

// Once registers fn for the next change of key only.
func (c *Container) Once(key string, fn value.Listener[any]) (listener.Handle, error) {
	cell, err := c.Cell(key)
	if err != nil {
		return listener.Handle{}, err
	}
	return cell.Once(fn), nil
}

// RemoveEventListener removes the listener registered on key under h.
// Removing an unknown handle is a no-op.
func (c *Container) RemoveEventListener(key string, h listener.Handle) error {
	cell, err := c.Cell(key)
	if err != nil {
		return err
	}
	cell.Off(h)
	return nil
}
