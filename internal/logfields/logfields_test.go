package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b-1", BuildID("b-1")},
		{"Target", KeyTarget, "build", Target("build")},
		{"Page", KeyPage, "privacy_policy", Page("privacy_policy")},
		{"Section", KeySection, "header", Section("header")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Theme", KeyTheme, "dark", Theme("dark")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Count(3); a.Key != KeyCount || a.Value.Int64() != 3 {
		t.Fatalf("unexpected count attr: %v", a)
	}
	a := Since(time.Now().Add(-5 * time.Millisecond))
	if a.Key != KeyDurationMS || a.Value.Float64() < 5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}
