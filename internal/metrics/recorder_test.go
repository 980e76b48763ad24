package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	pages    map[string]int
	written  map[string]int
	targets  map[string]map[ResultLabel]int
	outcomes map[BuildOutcomeLabel]int
	builds   int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		pages:    map[string]int{},
		written:  map[string]int{},
		targets:  map[string]map[ResultLabel]int{},
		outcomes: map[BuildOutcomeLabel]int{},
	}
}

func (t *testRecorder) ObservePageRender(page string, _ time.Duration) { t.pages[page]++ }
func (t *testRecorder) IncPagesWritten(target string, n int)           { t.written[target] += n }
func (t *testRecorder) ObserveTargetDuration(string, time.Duration)    {}
func (t *testRecorder) IncTargetResult(target string, result ResultLabel) {
	m, ok := t.targets[target]
	if !ok {
		m = map[ResultLabel]int{}
		t.targets[target] = m
	}
	m[result]++
}
func (t *testRecorder) ObserveBuildDuration(time.Duration)        { t.builds++ }
func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) { t.outcomes[outcome]++ }

func TestRecorderInterfaceSatisfied(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)

	r := newTestRecorder()
	var rec Recorder = r
	rec.ObservePageRender("index", time.Millisecond)
	rec.IncPagesWritten("build", 3)
	rec.IncPagesWritten("build", 2)
	rec.IncTargetResult("build", ResultSuccess)
	rec.IncBuildOutcome(BuildOutcomeSuccess)

	if r.pages["index"] != 1 || r.written["build"] != 5 || r.targets["build"][ResultSuccess] != 1 || r.outcomes[BuildOutcomeSuccess] != 1 {
		t.Fatalf("unexpected recorder state: %+v", r)
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.ObservePageRender("index", time.Millisecond)
	p.IncPagesWritten("build", 1)
	p.ObserveTargetDuration("build", time.Millisecond)
	p.IncTargetResult("build", ResultFailed)
	p.ObserveBuildDuration(time.Second)
	p.IncBuildOutcome(BuildOutcomeFailed)
}
