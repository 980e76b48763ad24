package config

import (
	"slices"
	"sort"

	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/foundation/normalization"
)

var targetNames = func() *normalization.Normalizer[string] {
	values := make(map[string]string, len(KnownTargets))
	for _, t := range KnownTargets {
		values[t] = t
	}
	return normalization.NewNormalizer(values, "")
}()

// IsKnownTarget reports whether name is a selectable output target, ignoring case.
func IsKnownTarget(name string) bool {
	_, ok := targetNames.Lookup(name)
	return ok
}

// Overrides is the command-line configuration layer.
type Overrides struct {
	// Targets replaces the configured output targets when non-empty. Names are
	// matched case-insensitively.
	Targets []string
	// NoClean disables wiping target directories regardless of clean_outputs.
	NoClean bool
}

// WithOverrides returns a copy of c with o applied. c itself is left untouched.
func (c *Config) WithOverrides(o Overrides) (*Config, error) {
	out := c.Clone()
	if len(o.Targets) > 0 {
		order := make([]string, 0, len(o.Targets))
		for _, raw := range o.Targets {
			t, ok := targetNames.Lookup(raw)
			if !ok {
				return nil, ferrors.ValidationError("unknown output target").
					WithContext("target", raw).
					WithContext("choices", KnownTargets).
					Build()
			}
			if !slices.Contains(order, t) {
				order = append(order, t)
			}
		}
		targets := make(map[string]bool, len(c.OutputTargets))
		for name := range c.OutputTargets {
			targets[name] = false
		}
		for _, t := range order {
			targets[t] = true
		}
		out.OutputTargets = targets
		out.targetOrder = order
	}
	if o.NoClean {
		out.CleanOutputs = false
	}
	return out, nil
}

// EnabledTargets returns the output targets to generate, in processing order.
// Command-line targets keep the order they were given in; configured targets
// follow KnownTargets, then any other enabled names sorted.
func (c *Config) EnabledTargets() []string {
	if len(c.targetOrder) > 0 {
		return slices.Clone(c.targetOrder)
	}
	return orderedEnabled(c.OutputTargets, KnownTargets)
}

// EnabledPages returns the enabled content page ids: catalogue pages first in
// PolicyPageOrder, then any other enabled ids sorted.
func (c *Config) EnabledPages() []string {
	return orderedEnabled(c.GeneratePolicyPages, PolicyPageOrder)
}

func orderedEnabled(flags map[string]bool, canonical []string) []string {
	var out []string
	for _, name := range canonical {
		if flags[name] {
			out = append(out, name)
		}
	}
	var rest []string
	for name, enabled := range flags {
		if enabled && !slices.Contains(canonical, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
