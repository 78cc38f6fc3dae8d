package metrics

import (
	coremetrics "github.com/christianmorkeberg/group25/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	solves    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	objective *prometheus.GaugeVec
}

// NewPromSink registers solve metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using StartPromServer.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_solves_total",
		Help: "Total number of scenario solves",
	}, []string{"scenario", "variant", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_solve_duration_seconds",
		Help:    "Time spent building and solving one scenario",
		Buckets: prometheus.DefBuckets,
	}, []string{"scenario", "variant"})
	objective := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dispatch_objective_value",
		Help: "Objective value of the latest optimal solve",
	}, []string{"scenario", "variant"})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(objective); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			objective = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration, objective: objective}, nil
}

// RecordSolve increments the solve counter and observes duration. The
// objective gauge only tracks optimal solves so a failed run does not clobber
// the last good value.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Scenario, ev.Variant, ev.Status).Inc()
	s.duration.WithLabelValues(ev.Scenario, ev.Variant).Observe(ev.Duration.Seconds())
	if ev.Status == "optimal" {
		s.objective.WithLabelValues(ev.Scenario, ev.Variant).Set(ev.Objective)
	}
	return nil
}
