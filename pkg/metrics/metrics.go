// Package metrics exports Prometheus metrics for observable values.
//
// A Collector is a value.Hook. Attach it to a value or container:
//
//	m := metrics.New(metrics.WithNamespace("myapp"))
//	c := container.New(initial, container.WithHooks(m))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - observe_writes_total: Counter of writes by cell and result (changed, skipped)
//   - observe_dispatch_duration_seconds: Histogram of listener fan-out duration
//   - observe_listener_failures_total: Counter of listener panics by cell
//   - observe_listeners: Gauge of listeners notified by the last dispatch
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/observe/pkg/listener"
	"github.com/vango-dev/observe/pkg/value"
)

// Config configures the Prometheus metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "observe").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "observe",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

const (
	resultChanged = "changed"
	resultSkipped = "skipped"
)

// Collector records value writes as Prometheus metrics.
type Collector struct {
	writesTotal      *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	listenerFailures *prometheus.CounterVec
	listeners        *prometheus.GaugeVec
}

var _ value.Hook = (*Collector)(nil)

// New registers the metrics with the configured registry and returns the
// collector. Like promauto, it panics if the metrics are already registered
// there; use a separate registry per collector.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of value writes by result",
			ConstLabels: config.ConstLabels,
		}, []string{"cell", "result"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Listener dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"cell"}),

		listenerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_failures_total",
			Help:        "Total number of listeners that panicked during dispatch",
			ConstLabels: config.ConstLabels,
		}, []string{"cell"}),

		listeners: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners",
			Help:        "Number of listeners notified by the last dispatch",
			ConstLabels: config.ConstLabels,
		}, []string{"cell"}),
	}
}

// Skipped implements value.Hook.
func (c *Collector) Skipped(cell string) {
	c.writesTotal.WithLabelValues(cell, resultSkipped).Inc()
}

// Dispatching implements value.Hook.
func (c *Collector) Dispatching(cell string, listeners int) func(err error) {
	start := time.Now()
	c.listeners.WithLabelValues(cell).Set(float64(listeners))

	return func(err error) {
		c.dispatchDuration.WithLabelValues(cell).Observe(time.Since(start).Seconds())
		c.writesTotal.WithLabelValues(cell, resultChanged).Inc()
		if n := len(listener.Failures(err)); n > 0 {
			c.listenerFailures.WithLabelValues(cell).Add(float64(n))
		}
	}
}
