// Package commands implements the pvlsite command line.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pvlsite/internal/config"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing progress lines. Defaults to stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path, relative to --root" default:"config.json"`
	Root    string           `short:"r" help:"Site root holding sections, styles and static assets" default:"." type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate the site into the enabled output targets"`
	Init     InitCmd     `cmd:"" help:"Write the default configuration and scaffold section files"`
	Preview  PreviewCmd  `cmd:"" help:"Serve one target locally and regenerate it on change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.logLevel()})))
	return nil
}

// logLevel is debug with --verbose, otherwise info. PVL_LOG_LEVEL wins when it
// names a valid level.
func (c *CLI) logLevel() slog.Level {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	if env := strings.TrimSpace(os.Getenv(config.EnvLogLevel)); env != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(env)); err == nil {
			level = parsed
		}
	}
	return level
}

// ConfigPath resolves --config against --root.
func (c *CLI) ConfigPath() string {
	if filepath.IsAbs(c.Config) {
		return c.Config
	}
	return filepath.Join(c.Root, c.Config)
}
