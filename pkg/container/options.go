package container

import (
	"log/slog"

	"github.com/vango-dev/observe/pkg/value"
)

type config struct {
	mode   value.Mode
	modes  map[string]value.Mode
	logger *slog.Logger
	hooks  []value.Hook
}

// Option configures a Container.
type Option func(*config)

// WithMode sets the write mode of every key. Default: value.ModeReplace.
func WithMode(mode value.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithKeyMode sets the write mode of a single key, overriding WithMode.
func WithKeyMode(key string, mode value.Mode) Option {
	return func(c *config) {
		if c.modes == nil {
			c.modes = make(map[string]value.Mode)
		}
		c.modes[key] = mode
	}
}

// WithLogger sets the logger passed to every value.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks attaches hooks to every value.
func WithHooks(hooks ...value.Hook) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks...)
	}
}

func (c *config) modeFor(key string) value.Mode {
	if m, ok := c.modes[key]; ok {
		return m
	}
	return c.mode
}
