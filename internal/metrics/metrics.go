// Package metrics exports toast lifecycle counters to Prometheus. Collectors
// are fed from the event bus, so the engine never depends on them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hay-kot/toasty/internal/core/eventbus"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "toasty").
	Namespace string

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// Buckets are the histogram buckets for toast lifetimes, in seconds.
	Buckets []float64

	// Now returns the current time. Lifetimes are measured against it.
	Now func() time.Time
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithBuckets sets the lifetime histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithNow replaces the wall clock used for lifetimes.
func WithNow(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "toasty",
		Registry:  prometheus.DefaultRegisterer,
		Buckets:   []float64{0.5, 1, 2, 3, 5, 10, 30, 60, 300},
		Now:       time.Now,
	}
}

// Metrics holds the toast collectors.
type Metrics struct {
	now func() time.Time

	shown    *prometheus.CounterVec
	removed  *prometheus.CounterVec
	rejected prometheus.Counter
	paused   prometheus.Counter
	resumed  prometheus.Counter
	cleared  *prometheus.CounterVec
	active   *prometheus.GaugeVec
	lifetime *prometheus.HistogramVec
	clients  prometheus.Gauge
}

// New registers the collectors.
func New(opts ...Option) *Metrics {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		now: cfg.Now,

		shown: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_shown_total",
			Help:      "Total number of toasts shown",
		}, []string{"position", "status"}),

		removed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_removed_total",
			Help:      "Total number of toasts removed, by reason",
		}, []string{"reason"}),

		rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_rejected_total",
			Help:      "Total number of show requests that failed validation",
		}),

		paused: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toast_pauses_total",
			Help:      "Total number of countdowns paused",
		}),

		resumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toast_resumes_total",
			Help:      "Total number of countdowns resumed",
		}),

		cleared: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "groups_cleared_total",
			Help:      "Total number of clear-all actions, by position",
		}, []string{"position"}),

		active: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_active",
			Help:      "Number of toasts currently displayed, by position",
		}, []string{"position"}),

		lifetime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "toast_lifetime_seconds",
			Help:      "Time from show to removal in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"reason"}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected websocket clients",
		}),
	}
}

// Attach subscribes the collectors to bus.
func (m *Metrics) Attach(bus *eventbus.EventBus) {
	bus.SubscribeToastShown(func(p eventbus.ToastShownPayload) {
		pos := string(p.Record.Position)
		m.shown.WithLabelValues(pos, string(p.Record.Status)).Inc()
		m.active.WithLabelValues(pos).Inc()
	})

	bus.SubscribeToastRemoved(func(p eventbus.ToastRemovedPayload) {
		reason := string(p.Reason)
		m.removed.WithLabelValues(reason).Inc()
		m.active.WithLabelValues(string(p.Record.Position)).Dec()
		if !p.Record.CreatedAt.IsZero() {
			m.lifetime.WithLabelValues(reason).Observe(m.now().Sub(p.Record.CreatedAt).Seconds())
		}
	})

	bus.SubscribeToastRejected(func(eventbus.ToastRejectedPayload) {
		m.rejected.Inc()
	})

	bus.SubscribeToastPaused(func(eventbus.ToastPausedPayload) {
		m.paused.Inc()
	})

	bus.SubscribeToastResumed(func(eventbus.ToastResumedPayload) {
		m.resumed.Inc()
	})

	bus.SubscribeGroupCleared(func(p eventbus.GroupClearedPayload) {
		m.cleared.WithLabelValues(string(p.Position)).Inc()
	})
}

// ClientConnected records a websocket client joining.
func (m *Metrics) ClientConnected() { m.clients.Inc() }

// ClientDisconnected records a websocket client leaving.
func (m *Metrics) ClientDisconnected() { m.clients.Dec() }
