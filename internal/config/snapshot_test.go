package config

import "testing"

func TestSnapshotStableAcrossMapOrder(t *testing.T) {
	a := &Config{Theme: ThemeDark, Integrations: map[string]bool{"a": true, "b": false}, GeneratePolicyPages: map[string]bool{"x": true, "y": true}}
	b := &Config{Theme: ThemeDark, Integrations: map[string]bool{"b": false, "a": true}, GeneratePolicyPages: map[string]bool{"y": true, "x": true}}

	if a.Snapshot() != b.Snapshot() {
		t.Fatalf("expected equal snapshots")
	}
}

func TestSnapshotDetectsMeaningfulChange(t *testing.T) {
	c := &Config{Theme: ThemeDark}
	before := c.Snapshot()
	c.Theme = ThemeLight
	if before == c.Snapshot() {
		t.Fatalf("expected snapshot change after theme modification")
	}
}

func TestSnapshotIgnoresTargets(t *testing.T) {
	c := &Config{Theme: ThemeDark, OutputTargets: map[string]bool{"build": true}}
	before := c.Snapshot()
	c.OutputTargets["dist"] = true
	c.CleanOutputs = !c.CleanOutputs
	if before != c.Snapshot() {
		t.Fatalf("expected targets to be ignored")
	}
	var nilCfg *Config
	if nilCfg.Snapshot() != "" {
		t.Fatalf("expected empty snapshot for nil config")
	}
}
