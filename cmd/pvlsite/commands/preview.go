package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pvlsite/internal/config"
	"git.home.luguber.info/inful/pvlsite/internal/metrics"
	"git.home.luguber.info/inful/pvlsite/internal/preview"
)

// PreviewCmd serves one output target and regenerates it when site sources change.
type PreviewCmd struct {
	Port   int    `name:"port" default:"1313" help:"Preview server port"`
	Target string `name:"target" default:"build" help:"Output target to generate and serve"`
}

func (p *PreviewCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	siteRoot, err := filepath.Abs(root.Root)
	if err != nil {
		return err
	}
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	req := buildRequest{
		Root:       siteRoot,
		ConfigPath: root.ConfigPath(),
		Overrides:  config.Overrides{Targets: []string{p.Target}},
		Recorder:   rec,
	}

	_, _ = fmt.Fprintf(global.out(), "Previewing %s at http://localhost:%d\n", p.Target, p.Port)
	return preview.Run(ctx, preview.Options{
		Root:      siteRoot,
		OutputDir: filepath.Join(siteRoot, p.Target),
		Ignore:    config.KnownTargets,
		Port:      p.Port,
		Registry:  reg,
		Build: func(ctx context.Context) (string, error) {
			res, err := runBuild(ctx, req)
			if res.Report == nil {
				return "", err
			}
			return res.Report.BuildID, err
		},
	})
}
