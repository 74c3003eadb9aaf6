package flow

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/fish/pkg/view"
)

const (
	namespace = "fish"
	subsystem = "flow"
)

type compileCollectors struct {
	passes     prometheus.Counter
	considered *prometheus.CounterVec
	attached   *prometheus.CounterVec
	duration   prometheus.Histogram
}

func newCompileCollectors() *compileCollectors {
	return &compileCollectors{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compile_passes_total",
			Help:      "Number of completed compile passes.",
		}),
		considered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "widgets_considered_total",
			Help:      "Widgets that reached the metrics middleware before attachment.",
		}, []string{"type"}),
		attached: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "widgets_attached_total",
			Help:      "Widgets attached to a container.",
		}, []string{"type"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compile_duration_seconds",
			Help:      "Compile pass time in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
		}),
	}
}

// Metrics records compile activity as Prometheus collectors. Forked
// instances share collectors with their origin.
type Metrics struct {
	MiddlewareBase
	c       *compileCollectors
	started time.Time
}

// NewMetrics returns a Metrics middleware with unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{c: newCompileCollectors()}
}

// MustRegister registers the collectors with registry.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.collectors()...)
}

// Register registers the collectors with registry, stopping at the first
// failure.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.c.passes, m.c.considered, m.c.attached, m.c.duration}
}

// Setup starts the pass timer.
func (m *Metrics) Setup() {
	m.started = time.Now()
}

// PreRender counts w as considered. It never vetoes.
func (m *Metrics) PreRender(w view.Widget) bool {
	m.c.considered.WithLabelValues(widgetType(w)).Inc()
	return true
}

// PostRender counts w as attached.
func (m *Metrics) PostRender(w view.Widget) {
	m.c.attached.WithLabelValues(widgetType(w)).Inc()
}

// Cleanup records the pass.
func (m *Metrics) Cleanup() {
	m.c.passes.Inc()
	m.c.duration.Observe(time.Since(m.started).Seconds())
}

// Fork returns a Metrics sharing the same collectors.
func (m *Metrics) Fork() Middleware {
	return &Metrics{c: m.c}
}

// UseMetrics registers m, or a fresh unregistered Metrics when m is nil.
func (s *State) UseMetrics(m *Metrics) *Metrics {
	if m == nil {
		m = NewMetrics()
	}
	s.Use(m)
	return m
}

func widgetType(w view.Widget) string {
	return fmt.Sprintf("%T", w)
}
