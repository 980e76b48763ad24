// Package render turns section fragments into complete HTML pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"git.home.luguber.info/inful/pvlsite/internal/config"
	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/sections"
)

//go:embed layouts/*.html
var layoutFS embed.FS

// Integrations gates the third-party embed snippets.
type Integrations struct {
	Recaptcha bool
	Tawk      bool
	Clarity   bool
}

// IntegrationsFrom reads the integration flags of cfg.
func IntegrationsFrom(cfg *config.Config) Integrations {
	return Integrations{
		Recaptcha: cfg.Integration(config.IntegrationRecaptcha),
		Tawk:      cfg.Integration(config.IntegrationTawk),
		Clarity:   cfg.Integration(config.IntegrationClarity),
	}
}

// Options configures a Renderer.
type Options struct {
	Theme config.Theme
	// CSS is the site stylesheet inlined into every page.
	CSS string
	// Favicon is a data URI; empty omits the icon link.
	Favicon string
	// Script is the page-relative URL of the site's module script; empty
	// omits the script tag.
	Script string
	IDs    config.IntegrationIDs
}

// Renderer renders pages from the embedded layouts. It holds no per-page state.
type Renderer struct {
	opts Options
	home *template.Template
	page *template.Template
}

type pageData struct {
	Theme       string
	Title       string
	Description string
	Accent      string
	BodyClass   string
	Favicon     template.URL
	Styles      template.CSS
	Script      string
	Captcha     bool
	Tawk        bool
	Clarity     bool
	IDs         config.IntegrationIDs

	Header     template.HTML
	Navigation template.HTML
	Body       []template.HTML
	Footer     template.HTML
	Trailing   []template.HTML
}

// New parses the layouts.
func New(opts Options) (*Renderer, error) {
	base, err := template.New("base").ParseFS(layoutFS, "layouts/base.html", "layouts/integrations.html")
	if err != nil {
		return nil, fmt.Errorf("parse base layout: %w", err)
	}
	home, err := layout(base, "layouts/home.html")
	if err != nil {
		return nil, err
	}
	page, err := layout(base, "layouts/page.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{opts: opts, home: home, page: page}, nil
}

func layout(base *template.Template, file string) (*template.Template, error) {
	clone, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone base layout: %w", err)
	}
	t, err := clone.ParseFS(layoutFS, file)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", file, err)
	}
	return t, nil
}

// RenderHome renders the home page: header, navigation, the sections of
// homeOrder, footer and the overlay fragments.
func (r *Renderer) RenderHome(desc PageDescriptor, set *sections.Set, homeOrder []string, flags Integrations) (string, error) {
	keys := []string{sections.Header, sections.Navigation, sections.Footer}
	keys = append(keys, homeOrder...)
	keys = append(keys, HomeOverlays...)
	if err := set.Require(keys...); err != nil {
		return "", err
	}

	data := r.data(desc, flags)
	data.Header = fragment(set, sections.Header)
	data.Navigation = fragment(set, sections.Navigation)
	data.Footer = fragment(set, sections.Footer)
	for _, key := range homeOrder {
		data.Body = append(data.Body, fragment(set, key))
	}
	for _, key := range HomeOverlays {
		data.Trailing = append(data.Trailing, fragment(set, key))
	}
	return execute(r.home, desc, data)
}

// RenderContentPage renders a content page: header, policy navigation, the
// pageID fragment, footer and, when includeSuccessModal is set, the success modal.
func (r *Renderer) RenderContentPage(desc PageDescriptor, set *sections.Set, pageID string, includeSuccessModal bool, flags Integrations) (string, error) {
	keys := []string{sections.Header, sections.PolicyNavigation, pageID, sections.Footer}
	if includeSuccessModal {
		keys = append(keys, sections.SuccessModal)
	}
	if err := set.Require(keys...); err != nil {
		return "", err
	}

	data := r.data(desc, flags)
	data.Header = fragment(set, sections.Header)
	data.Navigation = fragment(set, sections.PolicyNavigation)
	data.Body = []template.HTML{fragment(set, pageID)}
	data.Footer = fragment(set, sections.Footer)
	if includeSuccessModal {
		data.Trailing = []template.HTML{fragment(set, sections.SuccessModal)}
	}
	return execute(r.page, desc, data)
}

func (r *Renderer) data(desc PageDescriptor, flags Integrations) pageData {
	tokens := TokensFor(r.opts.Theme)
	return pageData{
		Theme:       string(r.opts.Theme),
		Title:       desc.Title,
		Description: desc.Description,
		Accent:      tokens.Accent,
		BodyClass:   desc.BodyClass,
		// #nosec G203 -- the favicon is a data URI built from a local image.
		Favicon: template.URL(r.opts.Favicon),
		Styles:  styles(tokens, r.opts.CSS),
		Script:  r.opts.Script,
		Captcha: flags.Recaptcha && desc.IncludeCaptcha,
		Tawk:    flags.Tawk,
		Clarity: flags.Clarity,
		IDs:     r.opts.IDs,
	}
}

// fragment returns trusted markup. Fragments are authored site content that
// already went through normalization.
func fragment(set *sections.Set, key string) template.HTML {
	v, _ := set.Get(key)
	// #nosec G203 -- section fragments are the site's own markup.
	return template.HTML(v)
}

func execute(t *template.Template, desc PageDescriptor, data pageData) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return "", ferrors.RenderError("render page").
			WithCause(err).
			WithContext("page", desc.ID).
			Build()
	}
	return buf.String(), nil
}
