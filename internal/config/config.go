package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/foundation/normalization"
)

// Theme selects the token set fed to the page templates.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var themes = normalization.NewNormalizer(map[string]Theme{
	string(ThemeDark):  ThemeDark,
	string(ThemeLight): ThemeLight,
}, ThemeDark)

// Config is the merged site generator configuration. Values are snapshots:
// methods that change settings return a new Config.
type Config struct {
	Theme               Theme           `json:"theme"`
	GenerateMainPage    bool            `json:"generate_main_page"`
	GeneratePolicyPages map[string]bool `json:"generate_policy_pages"`
	OutputTargets       map[string]bool `json:"output_targets"`
	CleanOutputs        bool            `json:"clean_outputs"`
	Integrations        map[string]bool `json:"integrations"`

	// Extra holds persisted top-level keys outside the default schema.
	Extra map[string]any `json:"-"`

	// targetOrder is set when command-line targets replace the configured ones.
	targetOrder []string
}

// Load reads the configuration at path and merges it over the defaults.
// When the file does not exist the defaults are written to path and returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("Configuration file not found, writing defaults", "path", path)
		if err := writeTree(path, Defaults()); err != nil {
			return nil, err
		}
		return FromTree(Defaults())
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}

	var persisted map[string]any
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, ferrors.ConfigParseError(path, err)
	}
	if err := ValidateTree(persisted); err != nil {
		return nil, ferrors.ConfigParseError(path, err)
	}

	cfg, err := FromTree(Merge(Defaults(), persisted))
	if err != nil {
		return nil, ferrors.ConfigParseError(path, err)
	}
	return cfg, nil
}

// Init writes the default configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	return writeTree(path, Defaults())
}

// FromTree decodes a merged configuration tree into a Config.
func FromTree(tree map[string]any) (*Config, error) {
	known := make(map[string]any, len(tree))
	extra := make(map[string]any)
	for k, v := range tree {
		if isKnownKey(k) {
			known[k] = v
		} else {
			extra[k] = deepCopyValue(v)
		}
	}

	raw, err := json.Marshal(known)
	if err != nil {
		return nil, fmt.Errorf("encode configuration tree: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		cfg.Extra = extra
	}
	if theme, ok := themes.Lookup(string(cfg.Theme)); ok {
		cfg.Theme = theme
	} else {
		slog.Warn("Unknown theme, falling back to dark", "theme", string(cfg.Theme), "choices", themes.ValidKeys())
		cfg.Theme = ThemeDark
	}
	if cfg.GeneratePolicyPages == nil {
		cfg.GeneratePolicyPages = map[string]bool{}
	}
	if cfg.OutputTargets == nil {
		cfg.OutputTargets = map[string]bool{}
	}
	if cfg.Integrations == nil {
		cfg.Integrations = map[string]bool{}
	}
	return &cfg, nil
}

// Tree returns the configuration as a JSON-shaped tree, including Extra keys.
func (c *Config) Tree() map[string]any {
	tree := deepCopyMap(c.Extra)
	tree[KeyTheme] = string(c.Theme)
	tree[KeyGenerateMainPage] = c.GenerateMainPage
	tree[KeyGeneratePolicyPages] = boolMapTree(c.GeneratePolicyPages)
	tree[KeyOutputTargets] = boolMapTree(c.OutputTargets)
	tree[KeyCleanOutputs] = c.CleanOutputs
	tree[KeyIntegrations] = boolMapTree(c.Integrations)
	return tree
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.GeneratePolicyPages = maps.Clone(c.GeneratePolicyPages)
	out.OutputTargets = maps.Clone(c.OutputTargets)
	out.Integrations = maps.Clone(c.Integrations)
	if c.Extra != nil {
		out.Extra = deepCopyMap(c.Extra)
	}
	out.targetOrder = append([]string(nil), c.targetOrder...)
	return &out
}

// Integration reports whether the named integration is enabled.
func (c *Config) Integration(name string) bool {
	return c.Integrations[name]
}

// PageEnabled reports whether the content page id is enabled. Absent ids are disabled.
func (c *Config) PageEnabled(id string) bool {
	return c.GeneratePolicyPages[id]
}

func isKnownKey(k string) bool {
	switch k {
	case KeyTheme, KeyGenerateMainPage, KeyGeneratePolicyPages, KeyOutputTargets, KeyCleanOutputs, KeyIntegrations:
		return true
	}
	return false
}

func boolMapTree(m map[string]bool) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func writeTree(path string, tree map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tree); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode default configuration").Fatal().Build()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create configuration directory").
				Fatal().
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}
