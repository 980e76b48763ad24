// Package report produces the JSON summary written after a generation run.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/git"
	"git.home.luguber.info/inful/pvlsite/internal/version"
)

// Outcome values of a Report.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// TargetResult lists what was written to one output target.
type TargetResult struct {
	Name       string   `json:"name"`
	Dir        string   `json:"dir"`
	Cleaned    bool     `json:"cleaned"`
	Pages      []string `json:"pages"`
	Assets     int      `json:"assets_copied"`
	DurationMS int64    `json:"duration_ms"`
}

// Report summarizes one generation run.
type Report struct {
	BuildID        string         `json:"build_id"`
	Version        string         `json:"version"`
	Revision       *git.Revision  `json:"revision,omitempty"`
	ConfigSnapshot string         `json:"config_snapshot"`
	Theme          string         `json:"theme"`
	Started        time.Time      `json:"started"`
	Finished       time.Time      `json:"finished"`
	Outcome        string         `json:"outcome"`
	Error          string         `json:"error,omitempty"`
	ErrorCategory  string         `json:"error_category,omitempty"`
	Targets        []TargetResult `json:"targets"`
}

// New starts a report with a fresh build id. The source revision is read from
// the repository containing root, if any. Changes under the output directories
// do not mark the revision dirty.
func New(root, snapshot, theme string, outputs ...string) *Report {
	r := &Report{
		BuildID:        uuid.NewString(),
		Version:        version.Version,
		ConfigSnapshot: snapshot,
		Theme:          theme,
		Started:        time.Now().UTC(),
		Targets:        []TargetResult{},
	}
	rev, err := git.ReadRevision(root, outputs...)
	switch {
	case err == nil:
		r.Revision = &rev
	case errors.Is(err, git.ErrNotRepository):
	default:
		slog.Debug("Could not read source revision", "error", err)
	}
	return r
}

// AddTarget records a finished target.
func (r *Report) AddTarget(t TargetResult) {
	r.Targets = append(r.Targets, t)
}

// Finish stamps the end time and outcome.
func (r *Report) Finish(err error) {
	r.Finished = time.Now().UTC()
	r.Outcome = OutcomeSuccess
	if err != nil {
		r.Outcome = OutcomeFailed
		r.Error = err.Error()
		r.ErrorCategory = string(ferrors.GetCategory(err))
	}
}

// Duration is the wall time between start and finish.
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}

// PageCount is the number of pages written across all targets.
func (r *Report) PageCount() int {
	n := 0
	for _, t := range r.Targets {
		n += len(t.Pages)
	}
	return n
}

// Write stores the report as indented JSON at path.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
