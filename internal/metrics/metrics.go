// Package metrics records the outcome of a reconciliation run in a
// Prometheus registry that can be exported in the node exporter textfile
// format.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

const namespace = "moinit"

// Recorder holds the run metrics. It implements the reconciler observer
// interface so class writes are counted as they are applied.
type Recorder struct {
	registry *prometheus.Registry

	ClassMutations *prometheus.CounterVec
	FacetsFetched  prometheus.Gauge
	RunDuration    prometheus.Gauge
	RunSuccess     prometheus.Gauge
	LastRun        prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ClassMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "class_mutations_total",
			Help:      "Classes written to MO, by action and facet",
		}, []string{"action", "facet"}),
		FacetsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "facets_fetched",
			Help:      "Facets found in MO during the last run",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
		RunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "Whether the last run completed without error (1) or not (0)",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	r.registry.MustRegister(r.ClassMutations, r.FacetsFetched, r.RunDuration, r.RunSuccess, r.LastRun)
	return r
}

// Registry returns the registry holding the run metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// OnClassCreated counts a created class.
func (r *Recorder) OnClassCreated(_ context.Context, facet taxonomy.Facet, _ taxonomy.Class) {
	r.ClassMutations.WithLabelValues("create", facet.UserKey).Inc()
}

// OnClassUpdated counts an updated class.
func (r *Recorder) OnClassUpdated(_ context.Context, facet taxonomy.Facet, _ taxonomy.Class) {
	r.ClassMutations.WithLabelValues("update", facet.UserKey).Inc()
}

// ObserveRun records the summary of a finished run.
func (r *Recorder) ObserveRun(facets int, duration time.Duration, err error) {
	r.FacetsFetched.Set(float64(facets))
	r.RunDuration.Set(duration.Seconds())
	if err != nil {
		r.RunSuccess.Set(0)
	} else {
		r.RunSuccess.Set(1)
	}
	r.LastRun.SetToCurrentTime()
}

// WriteTextfile atomically writes the metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
