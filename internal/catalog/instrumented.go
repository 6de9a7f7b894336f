package catalog

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// Request outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics holds the catalog request collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the catalog collectors with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membersel_catalog_requests_total",
			Help: "Catalog lookups by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "membersel_catalog_request_duration_seconds",
			Help:    "Catalog lookup latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

type instrumented struct {
	next    Client
	metrics *Metrics
}

// Instrumented wraps client so every lookup is counted and timed.
func Instrumented(client Client, metrics *Metrics) Client {
	return &instrumented{next: client, metrics: metrics}
}

func (i *instrumented) Levels(ctx context.Context, coords olap.Coordinates) ([]olap.Level, error) {
	start := time.Now()
	levels, err := i.next.Levels(ctx, coords)
	i.observe("levels", start, len(levels), err)
	return levels, err
}

func (i *instrumented) LevelMembers(ctx context.Context, coords olap.Coordinates, level string) ([]olap.MemberRow, error) {
	start := time.Now()
	rows, err := i.next.LevelMembers(ctx, coords, level)
	i.observe("level_members", start, len(rows), err)
	return rows, err
}

func (i *instrumented) ChildMembers(ctx context.Context, cube, uniqueName string) ([]olap.MemberRow, error) {
	start := time.Now()
	rows, err := i.next.ChildMembers(ctx, cube, uniqueName)
	i.observe("child_members", start, len(rows), err)
	return rows, err
}

func (i *instrumented) observe(op string, start time.Time, n int, err error) {
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case n == 0:
		outcome = OutcomeEmpty
	}
	i.metrics.requests.WithLabelValues(op, outcome).Inc()
	i.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
