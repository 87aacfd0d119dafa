// Package tracing records observable value dispatches as OpenTelemetry spans.
//
// A Tracer is a value.Hook:
//
//	c := container.New(initial, container.WithHooks(tracing.New()))
//
// Every change produces one "observe.dispatch" span covering the listener
// fan-out. Spans carry the cell name and listener count, and are marked as
// errors when a listener panicked.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is given
// with WithTracerProvider. Configure it in main():
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
package tracing

import (
	"context"

	"github.com/vango-dev/observe/pkg/listener"
	"github.com/vango-dev/observe/pkg/value"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "observe"

// Span names.
const (
	SpanDispatch = "observe.dispatch"
	SpanSkip     = "observe.skip"
)

// Config configures the tracing hook.
type Config struct {
	// TracerName is the name of the tracer (default: "observe").
	TracerName string

	// Provider is the tracer provider. If nil, the global provider is used.
	Provider trace.TracerProvider

	// Context is the parent context for spans (default: context.Background()).
	Context context.Context

	// Filter determines which cells to trace.
	// If nil, all cells are traced.
	Filter func(cell string) bool

	// TraceSkips also records a span for writes that changed nothing.
	TraceSkips bool

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// Option configures the tracing hook.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithContext sets the parent context of every span.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// WithFilter sets a filter function for cells.
func WithFilter(filter func(cell string) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithTraceSkips enables spans for writes that changed nothing.
func WithTraceSkips(enabled bool) Option {
	return func(c *Config) {
		c.TraceSkips = enabled
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracer is a value.Hook that emits spans.
type Tracer struct {
	config Config
	tracer trace.Tracer
}

var _ value.Hook = (*Tracer)(nil)

// New creates a tracing hook.
func New(opts ...Option) *Tracer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Context == nil {
		config.Context = context.Background()
	}

	// An explicit provider wins over the global one.
	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{config: config, tracer: tracer}
}

func (t *Tracer) traced(cell string) bool {
	return t.config.Filter == nil || t.config.Filter(cell)
}

func (t *Tracer) attributes(cell string, extra ...attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(t.config.Attributes)+len(extra)+1)
	attrs = append(attrs, attribute.String("observe.cell", cell))
	attrs = append(attrs, extra...)
	return append(attrs, t.config.Attributes...)
}

// Skipped implements value.Hook.
func (t *Tracer) Skipped(cell string) {
	if !t.config.TraceSkips || !t.traced(cell) {
		return
	}
	_, span := t.tracer.Start(t.config.Context, SpanSkip,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(t.attributes(cell)...),
	)
	span.End()
}

// Dispatching implements value.Hook.
func (t *Tracer) Dispatching(cell string, listeners int) func(err error) {
	if !t.traced(cell) {
		return nil
	}

	_, span := t.tracer.Start(t.config.Context, SpanDispatch,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(t.attributes(cell, attribute.Int("observe.listeners", listeners))...),
	)

	return func(err error) {
		defer span.End()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.Int("observe.listener_failures", len(listener.Failures(err))))
			return
		}
		span.SetStatus(codes.Ok, "")
	}
}
