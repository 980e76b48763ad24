package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/pvlsite/internal/config"
	"git.home.luguber.info/inful/pvlsite/internal/logfields"
	"git.home.luguber.info/inful/pvlsite/internal/metrics"
	"git.home.luguber.info/inful/pvlsite/internal/observability"
	"git.home.luguber.info/inful/pvlsite/internal/report"
	"git.home.luguber.info/inful/pvlsite/internal/site"
)

// buildRequest describes one generation run.
type buildRequest struct {
	Root       string
	ConfigPath string
	Overrides  config.Overrides
	Recorder   metrics.Recorder
}

// buildResult is what a run produced. Report is set even when the run failed
// after the configuration was loaded.
type buildResult struct {
	Report  *report.Report
	Config  *config.Config
	Written []string
}

// runBuild loads the environment files and configuration, then generates every
// enabled target.
func runBuild(ctx context.Context, req buildRequest) (buildResult, error) {
	var res buildResult
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return res, err
	}
	if err := config.LoadEnvFiles(root); err != nil {
		slog.Warn("Failed to load environment file", logfields.Error(err))
	}

	cfg, err := config.Load(req.ConfigPath)
	if err != nil {
		return res, err
	}
	cfg, err = cfg.WithOverrides(req.Overrides)
	if err != nil {
		return res, err
	}
	res.Config = cfg

	targets := cfg.EnabledTargets()
	rep := report.New(root, cfg.Snapshot(), string(cfg.Theme), outputDirs(targets)...)
	res.Report = rep
	ctx = observability.WithBuildID(ctx, rep.BuildID)
	observability.DebugContext(ctx, "Configuration loaded",
		logfields.Theme(string(cfg.Theme)),
		slog.String("snapshot", rep.ConfigSnapshot),
		slog.Any("targets", targets))

	gen, err := site.Prepare(site.Options{
		Root:     root,
		Config:   cfg,
		IDs:      config.IntegrationIDsFromEnv(),
		Recorder: req.Recorder,
	})
	if err == nil {
		gen.Report = rep
		res.Written, err = gen.Generate(ctx, targets)
	}
	rep.Finish(err)
	return res, err
}

// outputDirs is every directory a build may write: the known targets plus any
// other enabled ones.
func outputDirs(enabled []string) []string {
	dirs := slices.Clone(config.KnownTargets)
	for _, t := range enabled {
		if !slices.Contains(dirs, t) {
			dirs = append(dirs, t)
		}
	}
	return dirs
}
