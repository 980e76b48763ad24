package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pvlsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	reg            *prom.Registry
	pageRender     *prom.HistogramVec
	pagesWritten   *prom.CounterVec
	targetDuration *prom.HistogramVec
	targetResults  *prom.CounterVec
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	lastBuild      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.pageRender = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "Duration of rendering individual pages",
			Buckets:   prom.DefBuckets,
		}, []string{"page"})
		pr.pagesWritten = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Pages written per output target",
		}, []string{"target"})
		pr.targetDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "target_duration_seconds",
			Help:      "Duration of generating one output target",
			Buckets:   prom.DefBuckets,
		}, []string{"target"})
		pr.targetResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "target_results_total",
			Help:      "Output target results by outcome",
		}, []string{"target", "result"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total generation duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Generation outcomes by final status",
		}, []string{"outcome"})
		pr.lastBuild = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time of the last finished generation",
		})
		reg.MustRegister(pr.pageRender, pr.pagesWritten, pr.targetDuration, pr.targetResults, pr.buildDuration, pr.buildOutcome, pr.lastBuild)
	})
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObservePageRender(page string, d time.Duration) {
	if p == nil || p.pageRender == nil {
		return
	}
	p.pageRender.WithLabelValues(page).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPagesWritten(target string, n int) {
	if p == nil || p.pagesWritten == nil {
		return
	}
	p.pagesWritten.WithLabelValues(target).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveTargetDuration(target string, d time.Duration) {
	if p == nil || p.targetDuration == nil {
		return
	}
	p.targetDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTargetResult(target string, result ResultLabel) {
	if p == nil || p.targetResults == nil {
		return
	}
	p.targetResults.WithLabelValues(target, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
	p.lastBuild.SetToCurrentTime()
}
