package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("unknown target").Build(), expected: 2},
		{name: "no targets", err: NoTargetsEnabledError(), expected: 1},
		{name: "missing section", err: MissingSectionError([]string{"footer"}), expected: 1},
		{name: "config parse", err: ConfigParseError("config.json", stderrors.New("bad json")), expected: 1},
		{name: "wrapped no targets", err: fmt.Errorf("generate: %w", NoTargetsEnabledError()), expected: 1},
		{name: "wrapped validation", err: fmt.Errorf("flags: %w", ValidationError("x").Build()), expected: 2},
		{name: "unclassified error", err: stderrors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	msg := adapter.FormatError(MissingSectionError([]string{"navigation", "footer"}))
	assert.Equal(t, "Error: missing required section files: footer, navigation", msg)

	msg = adapter.FormatError(NoTargetsEnabledError())
	assert.Contains(t, msg, "no output targets enabled")

	msg = adapter.FormatError(stderrors.New("plain"))
	assert.Equal(t, "Error: plain", msg)

	assert.Empty(t, adapter.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs bytes.Buffer
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.SetOutput(&out)

	code := adapter.HandleError(NoTargetsEnabledError())

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "no output targets enabled")
	assert.Contains(t, logs.String(), "category=targets")
}
