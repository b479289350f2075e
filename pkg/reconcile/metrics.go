package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/graft/pkg/vdom"
)

// Patch outcomes.
const (
	OutcomeReuse   = "reuse"
	OutcomeReplace = "replace"
)

// Metrics holds the reconciler's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	mounts         *prometheus.CounterVec
	patches        *prometheus.CounterVec
	unmounts       *prometheus.CounterVec
	renderDuration prometheus.Histogram
}

// NewMetrics registers the reconciler metrics with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		mounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mounts_total",
			Help:      "Total number of nodes mounted",
		}, []string{"kind"}),

		patches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patches_total",
			Help:      "Total number of node patches by outcome",
		}, []string{"kind", "outcome"}),

		unmounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmounts_total",
			Help:      "Total number of nodes unmounted",
		}, []string{"kind"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Root render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) mounted(kind vdom.VKind) {
	if m == nil {
		return
	}
	m.mounts.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) patched(kind vdom.VKind, outcome string) {
	if m == nil {
		return
	}
	m.patches.WithLabelValues(kind.String(), outcome).Inc()
}

func (m *Metrics) unmounted(kind vdom.VKind) {
	if m == nil {
		return
	}
	m.unmounts.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) observeRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}
