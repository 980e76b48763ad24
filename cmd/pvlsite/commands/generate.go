package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pvlsite/internal/config"
	"git.home.luguber.info/inful/pvlsite/internal/logfields"
	"git.home.luguber.info/inful/pvlsite/internal/metrics"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Targets     TargetList `name:"targets" short:"t" placeholder:"TARGET" help:"Output targets to generate (build, dist, deploy), comma or space separated, replacing the configured ones"`
	NoClean     bool       `name:"no-clean" help:"Keep existing files in target directories"`
	Report      string     `name:"report" help:"Write a JSON build report to this path"`
	MetricsFile string     `name:"metrics-file" help:"Write build metrics in Prometheus textfile format to this path"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return g.run(ctx, global, root)
}

func (g *GenerateCmd) run(ctx context.Context, global *Global, root *CLI) error {
	out := global.out()
	_, _ = fmt.Fprintln(out, "Generating Personal Video Library site")

	reg := prom.NewRegistry()
	res, err := runBuild(ctx, buildRequest{
		Root:       root.Root,
		ConfigPath: root.ConfigPath(),
		Overrides:  config.Overrides{Targets: g.Targets, NoClean: g.NoClean},
		Recorder:   metrics.NewPrometheusRecorder(reg),
	})

	if g.Report != "" && res.Report != nil {
		if werr := res.Report.Write(g.Report); werr != nil {
			slog.Warn("Failed to write build report", logfields.Path(g.Report), logfields.Error(werr))
		}
	}
	if g.MetricsFile != "" {
		if werr := metrics.WriteTextfile(reg, g.MetricsFile); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(g.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		_, _ = fmt.Fprintln(out, "Generation failed")
		return err
	}

	for _, dir := range res.Written {
		_, _ = fmt.Fprintf(out, "Generated %s\n", dir)
	}
	_, _ = fmt.Fprintf(out, "%d pages written to %d targets in %s\n",
		res.Report.PageCount(), len(res.Written), res.Report.Duration().Round(time.Millisecond))
	return nil
}
