// Package metrics holds the Prometheus collectors of a signal run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

const namespace = "signals"

// Run outcomes used as the status label.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusEmpty = "empty"
)

// Metrics holds all Prometheus metrics for pipeline runs.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal     *prometheus.CounterVec // labels: status
	BarsTotal     prometheus.Counter
	RowsTotal     prometheus.Counter
	DecisionTotal *prometheus.CounterVec // labels: decision
	SignalTotal   *prometheus.CounterVec // labels: signal, decision
	RunDuration   prometheus.Histogram
	WarmupRows    prometheus.Gauge
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome",
		}, []string{"status"}),
		BarsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bars_total",
			Help:      "Price bars read",
		}),
		RowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Decision rows produced",
		}),
		DecisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Final decisions by label",
		}, []string{"decision"}),
		SignalTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Per-indicator signals by label",
		}, []string{"signal", "decision"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one pipeline run",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		WarmupRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "warmup_rows",
			Help:      "Leading rows without full indicator history in the last run",
		}),
	}

	m.Registry.MustRegister(
		m.RunsTotal,
		m.BarsTotal,
		m.RowsTotal,
		m.DecisionTotal,
		m.SignalTotal,
		m.RunDuration,
		m.WarmupRows,
	)

	return m
}

// ObserveRun records the outcome and duration of one run.
func (m *Metrics) ObserveRun(status string, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

// ObserveDecision counts one final decision.
func (m *Metrics) ObserveDecision(decision types.SignalType) {
	m.DecisionTotal.WithLabelValues(decision.String()).Inc()
}

// ObserveSignal counts one per-indicator signal.
func (m *Metrics) ObserveSignal(name string, s types.SignalType) {
	m.SignalTotal.WithLabelValues(name, s.String()).Inc()
}

// WriteTextfile writes every collector to path in the text exposition
// format, for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write metrics to %s", path)
	}

	return nil
}
