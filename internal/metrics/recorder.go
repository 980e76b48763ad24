package metrics

import "time"

// ResultLabel enumerates target result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// BuildOutcomeLabel is the final status of a generation run.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for site generation. Implementations may
// forward to Prometheus. The NoopRecorder lets callers inject nothing.
type Recorder interface {
	ObservePageRender(page string, d time.Duration)
	IncPagesWritten(target string, n int)
	ObserveTargetDuration(target string, d time.Duration)
	IncTargetResult(target string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePageRender(string, time.Duration)     {}
func (NoopRecorder) IncPagesWritten(string, int)                 {}
func (NoopRecorder) ObserveTargetDuration(string, time.Duration) {}
func (NoopRecorder) IncTargetResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)          {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)           {}
