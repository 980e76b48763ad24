package site

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/pvlsite/internal/assets"
	"git.home.luguber.info/inful/pvlsite/internal/config"
	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/logfields"
	"git.home.luguber.info/inful/pvlsite/internal/markdown"
	"git.home.luguber.info/inful/pvlsite/internal/metrics"
	"git.home.luguber.info/inful/pvlsite/internal/normalize"
	"git.home.luguber.info/inful/pvlsite/internal/render"
	"git.home.luguber.info/inful/pvlsite/internal/sections"
)

// Site root layout.
const (
	SectionsDir   = "sections"
	StylesDir     = "styles"
	TextFixesFile = "text_fixes.yaml"
)

// Options are the inputs of Prepare.
type Options struct {
	Root     string
	Config   *config.Config
	IDs      config.IntegrationIDs
	Recorder metrics.Recorder
}

// Prepare reads every input under the site root once and returns a Generator
// ready to write targets: text fixes, normalized sections, stylesheets, favicon and the script entry.
func Prepare(opts Options) (*Generator, error) {
	fixes, err := normalize.LoadTextFixes(filepath.Join(opts.Root, TextFixesFile))
	if err != nil {
		return nil, err
	}
	normOpts := normalize.DefaultOptions()
	normOpts.TextFixes = fixes
	normalizer, err := normalize.New(normOpts)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid text fix table").
			WithContext("path", filepath.Join(opts.Root, TextFixesFile)).
			Build()
	}

	loader := &sections.Loader{Normalizer: normalizer, Markdown: markdown.NewRenderer()}
	set, err := loader.Load(filepath.Join(opts.Root, SectionsDir))
	if err != nil {
		return nil, err
	}
	slog.Debug("Sections loaded", logfields.Count(set.Len()))

	css, err := assets.LoadCSSModules(filepath.Join(opts.Root, StylesDir))
	if err != nil {
		return nil, err
	}
	favicon, err := assets.DataURI(filepath.Join(opts.Root, assets.FaviconPath))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read favicon").
			WithContext("path", filepath.Join(opts.Root, assets.FaviconPath)).
			Build()
	}

	renderer, err := render.New(render.Options{
		Theme:   opts.Config.Theme,
		CSS:     css,
		Favicon: favicon,
		Script:  assets.ScriptSrc(opts.Root),
		IDs:     opts.IDs,
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "load page layouts").Fatal().Build()
	}

	return &Generator{
		Root:     opts.Root,
		Config:   opts.Config,
		Sections: set,
		Renderer: renderer,
		Recorder: opts.Recorder,
	}, nil
}
