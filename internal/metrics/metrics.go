// Package metrics defines the Prometheus metrics of the case room.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"time"
)

const namespace = "caseroom"

// Access attempt results.
const (
	AccessValid   = "valid"
	AccessDemo    = "demo"
	AccessInvalid = "invalid"
	AccessLimited = "limited"
)

// Progress action kinds.
const (
	ActionActUnlock   = "act_unlock"
	ActionClueReveal  = "clue_reveal"
	ActionAnswer      = "answer"
	ActionHint        = "hint"
	ActionEventStatus = "event_status"
	ActionEvidence    = "evidence_view"
	ActionTheory      = "theory"
	ActionReset       = "reset"
)

type Metrics struct {
	registry        *prometheus.Registry
	RequestDuration *prometheus.HistogramVec
	AccessAttempts  *prometheus.CounterVec
	ContentLoads    *prometheus.CounterVec
	// Actions counts progress mutations by kind and whether they changed the progress.
	Actions *prometheus.CounterVec
}

// New registers the metrics together with the Go and process collectors in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})) //nolint:exhaustruct // defaults
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{ //nolint:exhaustruct // defaults
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
		AccessAttempts: factory.NewCounterVec(prometheus.CounterOpts{ //nolint:exhaustruct // defaults
			Namespace: namespace,
			Subsystem: "access",
			Name:      "attempts_total",
			Help:      "Access code redemptions by result.",
		}, []string{"result"}),
		ContentLoads: factory.NewCounterVec(prometheus.CounterOpts{ //nolint:exhaustruct // defaults
			Namespace: namespace,
			Subsystem: "content",
			Name:      "loads_total",
			Help:      "Case content loads by source.",
		}, []string{"source"}),
		Actions: factory.NewCounterVec(prometheus.CounterOpts{ //nolint:exhaustruct // defaults
			Namespace: namespace,
			Subsystem: "progress",
			Name:      "actions_total",
			Help:      "Progress actions by kind and outcome.",
		}, []string{"kind", "changed"}),
	}
}

// Action records a progress action.
func (m *Metrics) Action(kind string, changed bool) {
	m.Actions.WithLabelValues(kind, strconv.FormatBool(changed)).Inc()
}

// ObserveRequest records the duration of a finished request.
func (m *Metrics) ObserveRequest(method string, code int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, strconv.Itoa(code)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}) //nolint:exhaustruct // defaults
}
