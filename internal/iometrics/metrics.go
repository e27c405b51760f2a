// Package iometrics records cycle results as Prometheus metrics and
// pushes them to a Pushgateway. Invocations are short lived jobs, so
// metrics are pushed instead of scraped.
package iometrics

import (
	"context"
	"strconv"

	"github.com/gnames/geopephub/pkg/queue"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Namespace is the namespace component of the fully qualified metric name
const Namespace = "geopephub"

// Recorder keeps metrics of one invocation in its own registry.
type Recorder struct {
	reg *prometheus.Registry
	url string
	job string

	// cyclesTotal counts finished cycles per target.
	cyclesTotal *prometheus.CounterVec

	// itemsTotal counts processed sub-projects per target and outcome.
	itemsTotal *prometheus.CounterVec

	// cycleProjects is the state of the last finished cycle per target.
	cycleProjects *prometheus.GaugeVec

	// lastSuccess is the unix time of the last finished cycle.
	lastSuccess *prometheus.GaugeVec
}

// New creates a Recorder. Empty url disables Push.
func New(url, job string) *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		url: url,
		job: job,
		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cycles_total",
				Help:      "Total number of finished upload cycles",
			},
			[]string{"target"},
		),
		itemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "items_total",
				Help:      "Total number of processed sub-projects by outcome",
			},
			[]string{"target", "status"},
		),
		cycleProjects: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "cycle_projects",
				Help:      "Accessions of the last finished cycle by outcome",
			},
			[]string{"target", "cycle_id", "kind"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_cycle_timestamp_seconds",
				Help:      "Unix time of the last finished cycle",
			},
			[]string{"target"},
		),
	}
	r.reg.MustRegister(r.cyclesTotal, r.itemsTotal, r.cycleProjects, r.lastSuccess)
	return r
}

// Registry returns the registry with all metrics of the Recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Record adds results of a finished cycle. It fits queue.OptOnCycle.
func (r *Recorder) Record(c schema.Cycle, t queue.Tally) {
	id := strconv.FormatUint(uint64(c.ID), 10)

	r.cyclesTotal.WithLabelValues(c.Target).Inc()
	r.itemsTotal.WithLabelValues(c.Target, string(schema.StatusSuccess)).
		Add(float64(t.Success))
	r.itemsTotal.WithLabelValues(c.Target, string(schema.StatusFailure)).
		Add(float64(t.Failure))
	r.itemsTotal.WithLabelValues(c.Target, string(schema.StatusWarning)).
		Add(float64(t.Warning))

	r.cycleProjects.WithLabelValues(c.Target, id, "projects").
		Set(float64(c.NumberOfProjects))
	r.cycleProjects.WithLabelValues(c.Target, id, "successes").
		Set(float64(c.NumberOfSuccesses))
	r.cycleProjects.WithLabelValues(c.Target, id, "failures").
		Set(float64(c.NumberOfFailures))

	r.lastSuccess.WithLabelValues(c.Target).Set(float64(c.StatusDate.Unix()))
}

// Push sends all metrics to the Pushgateway, replacing metrics of the
// same job there.
func (r *Recorder) Push(ctx context.Context) error {
	if r.url == "" {
		return nil
	}
	err := push.New(r.url, r.job).
		Gatherer(r.reg).
		PushContext(ctx)
	if err != nil {
		return PushError(r.url, err)
	}
	return nil
}
