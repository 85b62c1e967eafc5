// Package metrics exposes Prometheus collectors for simulation runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kellysim"

// Metrics holds the collectors and the registry they live in.
type Metrics struct {
	Registry *prometheus.Registry

	// Runs counts completed runs by trigger ("apply" or "rerun").
	Runs        *prometheus.CounterVec
	MemoHits    prometheus.Counter
	RunErrors   prometheus.Counter
	RunDuration prometheus.Histogram

	FinalBalance    prometheus.Gauge
	ReturnPct       prometheus.Gauge
	MaxDrawdownPct  prometheus.Gauge
	KellyPct        *prometheus.GaugeVec
	DegenerateKelly prometheus.Counter
	WSClients       prometheus.Gauge
}

// New registers every collector on a fresh registry, together with the Go
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "runs_total",
			Help:      "Completed simulation runs",
		}, []string{"trigger"}),
		MemoHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "memo_hits_total",
			Help:      "Parameter updates answered from the last snapshot",
		}),
		RunErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "run_errors_total",
			Help:      "Runs rejected for invalid parameters",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one simulation run",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		FinalBalance: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trajectory",
			Name:      "final_balance",
			Help:      "Final balance of the latest run",
		}),
		ReturnPct: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trajectory",
			Name:      "return_pct",
			Help:      "Return of the latest run in percent",
		}),
		MaxDrawdownPct: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trajectory",
			Name:      "max_drawdown_pct",
			Help:      "Max drawdown of the latest run in percent",
		}),
		KellyPct: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "kelly",
			Name:      "risk_fraction_pct",
			Help:      "Recommended Kelly risk fraction for the latest parameters",
		}, []string{"fee_adjusted"}),
		DegenerateKelly: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kelly",
			Name:      "degenerate_total",
			Help:      "Kelly estimates replaced by the 0% sentinel",
		}),
		WSClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_clients",
			Help:      "Connected websocket subscribers",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
