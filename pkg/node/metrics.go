package node

import (
	"time"

	"github.com/lioia/corpus-pagerank/pkg/pagerank"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Runs     *prometheus.CounterVec
	Passes   prometheus.Histogram
	Duration prometheus.Histogram
	Pages    prometheus.Histogram
}

// NewMetrics creates the ranking collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagerank_runs_total",
			Help: "Number of ranking jobs by outcome.",
		}, []string{"status"}),
		Passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagerank_iteration_passes",
			Help:    "Passes of the iterative estimator until convergence.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagerank_run_duration_seconds",
			Help:    "Time spent running both estimators.",
			Buckets: prometheus.DefBuckets,
		}),
		Pages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagerank_corpus_pages",
			Help:    "Number of pages of ranked corpora.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	reg.MustRegister(m.Runs, m.Passes, m.Duration, m.Pages)
	return m
}

func (m *Metrics) observe(pages int, report pagerank.Report, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	switch {
	case err == nil && report.Iteration.Converged:
		m.Runs.WithLabelValues("converged").Inc()
	case err == nil:
		m.Runs.WithLabelValues("not_converged").Inc()
	case IsInvalid(err):
		m.Runs.WithLabelValues("invalid").Inc()
	default:
		m.Runs.WithLabelValues("failed").Inc()
	}
	if err != nil {
		return
	}
	m.Passes.Observe(float64(report.Iteration.Passes))
	m.Duration.Observe(elapsed.Seconds())
	m.Pages.Observe(float64(pages))
}
