package value

import "log/slog"

type config struct {
	name   string
	mode   Mode
	logger *slog.Logger
	hooks  []Hook
}

// Option configures a Value.
type Option func(*config)

// WithName sets the name reported to hooks and logs.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithMode sets the write mode. Default: ModeReplace.
func WithMode(mode Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
// Default: slog.Default() with component=observe.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks appends hooks that observe every write.
func WithHooks(hooks ...Hook) Option {
	return func(c *config) {
		for _, h := range hooks {
			if h != nil {
				c.hooks = append(c.hooks, h)
			}
		}
	}
}

func newConfig(opts []Option) config {
	c := config{mode: ModeReplace}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "observe")
	}
	return c
}
