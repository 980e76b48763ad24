package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")

	if lc := GetContext(ctx); lc.BuildID != "build-123" {
		t.Errorf("expected build-123, got %s", lc.BuildID)
	}
}

func TestMultipleContextValues(t *testing.T) {
	ctx := WithBuildID(context.Background(), "b1")
	ctx = WithTarget(ctx, "dist")
	ctx = WithPage(ctx, "contact")

	lc := GetContext(ctx)
	if lc.BuildID != "b1" || lc.Target != "dist" || lc.Page != "contact" {
		t.Errorf("unexpected context: %+v", lc)
	}
}

func TestInfoContextIncludesAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	ctx := WithTarget(WithBuildID(context.Background(), "b42"), "build")
	InfoContext(ctx, "page written", slog.String("page", "index"))
	DebugContext(context.Background(), "bare")

	out := buf.String()
	for _, want := range []string{"build_id=b42", "target=build", "page=index", "msg=bare"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output:\n%s", want, out)
		}
	}
}
