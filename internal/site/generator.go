// Package site generates the static site into its output targets.
package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/pvlsite/internal/assets"
	"git.home.luguber.info/inful/pvlsite/internal/config"
	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/logfields"
	"git.home.luguber.info/inful/pvlsite/internal/metrics"
	"git.home.luguber.info/inful/pvlsite/internal/navstate"
	"git.home.luguber.info/inful/pvlsite/internal/observability"
	"git.home.luguber.info/inful/pvlsite/internal/render"
	"git.home.luguber.info/inful/pvlsite/internal/report"
	"git.home.luguber.info/inful/pvlsite/internal/sections"
)

// reservedNames are site inputs that may never be used as an output target,
// since cleaning the target would delete them.
var reservedNames = []string{"sections", "styles", "shared", "icons", "assets", "manifest.json", "config.json", ".git"}

// Generator renders every enabled page and writes it to each output target.
type Generator struct {
	// Root is the site root holding the static trees and the manifest.
	Root string
	// OutputRoot is the directory target directories are created in. Defaults to Root.
	OutputRoot string
	Config     *config.Config
	Sections   *sections.Set
	Renderer   *render.Renderer
	Recorder   metrics.Recorder
	// Report, when set, receives one entry per finished target.
	Report *report.Report
}

// Page is a rendered page ready to be written.
type Page struct {
	ID   string
	File string
	HTML string
}

// Generate writes the site to every target in order and returns the target
// directories written. Pages are rendered once up front, so a missing section or
// template failure aborts before any target directory is touched.
func (g *Generator) Generate(ctx context.Context, targets []string) ([]string, error) {
	start := time.Now()
	rec := g.recorder()
	written, err := g.generate(ctx, targets)
	rec.ObserveBuildDuration(time.Since(start))
	switch {
	case err == nil:
		rec.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	case errors.Is(err, context.Canceled):
		rec.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	default:
		rec.IncBuildOutcome(metrics.BuildOutcomeFailed)
	}
	return written, err
}

func (g *Generator) generate(ctx context.Context, targets []string) ([]string, error) {
	if len(targets) == 0 {
		return nil, ferrors.NoTargetsEnabledError()
	}
	for _, t := range targets {
		if err := validateTargetName(t); err != nil {
			return nil, err
		}
	}

	pages, err := g.RenderPages(ctx)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		dir, err := g.writeTarget(observability.WithTarget(ctx, target), target, pages)
		if err != nil {
			return written, err
		}
		written = append(written, dir)
	}
	return written, nil
}

// RenderPages renders the home page (when enabled) and every enabled content page.
// Navigation markup is marked per page on a copy of the shared fragments.
func (g *Generator) RenderPages(ctx context.Context) ([]Page, error) {
	pageIDs := g.Config.EnabledPages()
	if err := g.Sections.Require(render.RequiredSections(g.Config.GenerateMainPage, pageIDs)...); err != nil {
		return nil, err
	}
	flags := render.IntegrationsFrom(g.Config)
	rec := g.recorder()

	var pages []Page
	if g.Config.GenerateMainPage {
		desc := render.HomeDescriptor()
		start := time.Now()
		html, err := g.Renderer.RenderHome(desc, g.marked(sections.Navigation, desc.File), render.HomeSectionOrder, flags)
		if err != nil {
			return nil, err
		}
		rec.ObservePageRender(desc.ID, time.Since(start))
		pages = append(pages, Page{ID: desc.ID, File: desc.File, HTML: html})
	}
	for _, id := range pageIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		desc := render.DescriptorFor(id)
		start := time.Now()
		html, err := g.Renderer.RenderContentPage(desc, g.marked(sections.PolicyNavigation, desc.File), id, desc.IncludeSuccessModal, flags)
		if err != nil {
			return nil, err
		}
		rec.ObservePageRender(id, time.Since(start))
		observability.DebugContext(observability.WithPage(ctx, id), "Rendered page", logfields.Path(desc.File))
		pages = append(pages, Page{ID: id, File: desc.File, HTML: html})
	}
	return pages, nil
}

// marked returns a view of the sections where the navigation fragment navKey and
// the footer mark pageFile as the current page.
func (g *Generator) marked(navKey, pageFile string) *sections.Set {
	nav, _ := g.Sections.Get(navKey)
	footer, _ := g.Sections.Get(sections.Footer)
	nav, footer = navstate.MarkActive(nav, footer, pageFile)
	return g.Sections.With(map[string]string{navKey: nav, sections.Footer: footer})
}

func (g *Generator) writeTarget(ctx context.Context, target string, pages []Page) (string, error) {
	start := time.Now()
	rec := g.recorder()
	dir := filepath.Join(g.outputRoot(), target)
	result := report.TargetResult{Name: target, Dir: dir, Pages: []string{}}

	fail := func(err error) (string, error) {
		rec.IncTargetResult(target, metrics.ResultFailed)
		observability.ErrorContext(ctx, "Target generation failed", logfields.Error(err))
		return "", err
	}

	if g.Config.CleanOutputs {
		if _, err := os.Stat(dir); err == nil {
			observability.InfoContext(ctx, "Cleaning target directory", logfields.Path(dir))
			if err := os.RemoveAll(dir); err != nil {
				return fail(fsError(err, "clean target directory", dir))
			}
			result.Cleaned = true
		}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fail(fsError(err, "create target directory", dir))
	}

	for _, p := range pages {
		if _, err := render.WritePage(dir, p.File, p.HTML); err != nil {
			return fail(fsError(err, "write page", filepath.Join(dir, p.File)))
		}
		result.Pages = append(result.Pages, p.File)
	}
	rec.IncPagesWritten(target, len(pages))

	copied, err := assets.CopyStatic(g.Root, dir)
	if err != nil {
		return fail(err)
	}
	result.Assets = copied

	elapsed := time.Since(start)
	result.DurationMS = elapsed.Milliseconds()
	rec.ObserveTargetDuration(target, elapsed)
	rec.IncTargetResult(target, metrics.ResultSuccess)
	if g.Report != nil {
		g.Report.AddTarget(result)
	}
	observability.InfoContext(ctx, "Target generated",
		logfields.Path(dir), logfields.Count(len(pages)), logfields.Since(start))
	return dir, nil
}

func (g *Generator) recorder() metrics.Recorder {
	if g.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return g.Recorder
}

func (g *Generator) outputRoot() string {
	if g.OutputRoot != "" {
		return g.OutputRoot
	}
	return g.Root
}

func validateTargetName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ferrors.ValidationError(fmt.Sprintf("invalid output target name %q", name)).
			WithContext("target", name).
			Build()
	}
	if slices.Contains(reservedNames, strings.ToLower(name)) {
		return ferrors.ValidationError(fmt.Sprintf("output target %q would overwrite site sources", name)).
			WithContext("target", name).
			Build()
	}
	return nil
}

func fsError(err error, msg, path string) error {
	return ferrors.FileSystemError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}
