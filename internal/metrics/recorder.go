package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhyrak/pick-scheduler/internal/scheduler"
)

// Recorder keeps prometheus collectors for solver runs.
type Recorder struct {
	registry    *prometheus.Registry
	handler     http.Handler
	runs        *prometheus.CounterVec
	objective   prometheus.Gauge
	branches    prometheus.Gauge
	conflicts   prometheus.Gauge
	wallTime    prometheus.Histogram
	variables   prometheus.Gauge
	constraints prometheus.Gauge
}

// NewRecorder registers the solver collectors on a private registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pick_scheduler_runs_total",
		Help: "Solver runs by outcome",
	}, []string{"status"})

	objective := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pick_scheduler_objective",
		Help: "Objective value of the last solved run",
	})

	branches := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pick_scheduler_branches",
		Help: "Branches explored by the last run",
	})

	conflicts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pick_scheduler_conflicts",
		Help: "Conflicts met by the last run",
	})

	wallTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pick_scheduler_wall_seconds",
		Help:    "Solver wall time in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	variables := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pick_scheduler_variables",
		Help: "Assignment variables in the last model",
	})

	constraints := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pick_scheduler_constraints",
		Help: "Constraints in the last model",
	})

	registry.MustRegister(runs, objective, branches, conflicts, wallTime, variables, constraints)

	return &Recorder{
		registry:    registry,
		handler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		runs:        runs,
		objective:   objective,
		branches:    branches,
		conflicts:   conflicts,
		wallTime:    wallTime,
		variables:   variables,
		constraints: constraints,
	}
}

// Observe records the diagnostics of one run.
func (r *Recorder) Observe(d scheduler.Diagnostics) {
	r.runs.WithLabelValues(d.Status.String()).Inc()
	r.objective.Set(float64(d.Objective))
	r.branches.Set(float64(d.Branches))
	r.conflicts.Set(float64(d.Conflicts))
	r.wallTime.Observe(d.WallTime.Seconds())
	r.variables.Set(float64(d.Variables))
	r.constraints.Set(float64(d.Constraints))
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *Recorder) Handler() http.Handler {
	return r.handler
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
