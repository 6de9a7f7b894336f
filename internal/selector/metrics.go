package selector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	gestures *prometheus.CounterVec
	stale    prometheus.Counter
	commits  *prometheus.CounterVec
}

// NewMetrics registers the engine collectors with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gestures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membersel_selector_requests_total",
			Help: "Requests issued by the navigation engine, by gesture.",
		}, []string{"gesture"}),
		stale: factory.NewCounter(prometheus.CounterOpts{
			Name: "membersel_selector_stale_responses_total",
			Help: "Responses dropped because a newer request was pending.",
		}),
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membersel_selector_commits_total",
			Help: "Commit attempts by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) request(g Gesture) {
	if m == nil {
		return
	}
	m.gestures.WithLabelValues(string(g)).Inc()
}

func (m *Metrics) staleResponse() {
	if m == nil {
		return
	}
	m.stale.Inc()
}

func (m *Metrics) commit(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "invalid"
	}
	m.commits.WithLabelValues(result).Inc()
}
