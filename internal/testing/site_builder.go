package testing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Default fragment markup written by SiteBuilder. Navigation surfaces link every
// default content page so active-state marking can be observed.
const (
	DefaultHeader = `<header class="site-header">
  <div class="logo">{{LOGO_IMAGE}}</div>
  <div class="hero" style="background-image: url('{{BANNER_IMAGE}}')">Personal Video Library</div>
</header>`
	DefaultNavigation = `<nav class="main-nav">
  <a href="/index.html" class="nav-link">Home</a>
  <a href="#pricing" class="nav-link">Pricing</a>
</nav>`
	DefaultPolicyNavigation = `<nav class="policy-nav">
  <a href="index.html" class="nav-link">Home</a>
  <a href="privacy_policy.html" class="nav-link">Privacy</a>
  <a href="terms_of_service.html" class="nav-link">Terms</a>
  <a href="cookie_policy.html" class="nav-link">Cookies</a>
  <a href="refund_policy.html" class="nav-link">Refunds</a>
  <a href="contact.html" class="nav-link">Contact</a>
</nav>`
	DefaultFooter = `<footer class="site-footer">
  <a href="privacy_policy.html" class="footer-link">Privacy Policy</a>
  <a href="terms_of_service.html" class="footer-link">Terms of Service</a>
  <a href="https://twitter.com/pvl" target="_blank">Twitter</a>
</footer>`
)

var defaultFragments = map[string]string{
	"header":              DefaultHeader,
	"navigation":          DefaultNavigation,
	"policy_navigation":   DefaultPolicyNavigation,
	"footer":              DefaultFooter,
	"success_modal":       `<div id="success-modal" class="modal">Thanks!</div>`,
	"about":               `<section id="about">About PVL</section>`,
	"features":            `<section id="features">Features</section>`,
	"categories":          `<section id="categories">Categories</section>`,
	"testimonials":        `<section id="testimonials">Testimonials</section>`,
	"implementations":     `<section id="implementations">Implementations</section>`,
	"pricing":             `<section id="pricing">Pricing</section>`,
	"contact":             `<section id="contact"><form id="contact-form"></form></section>`,
	"contact_modal":       `<div id="contact-modal" class="modal"></div>`,
	"quick_contact_modal": `<div id="quick-contact-modal" class="modal"></div>`,
	"exit_intent_popup":   `<div id="exit-intent-popup"></div>`,
	"privacy_policy":      `<section class="policy">Privacy policy body</section>`,
	"terms_of_service":    `<section class="policy">Terms body</section>`,
	"cookie_policy":       `<section class="policy">Cookie body</section>`,
	"refund_policy":       `<section class="policy">Refund body</section>`,
}

// SiteBuilder provides a fluent interface for creating site roots in tests.
type SiteBuilder struct {
	t         *testing.T
	fragments map[string]string
	files     map[string]string
	config    map[string]any
}

// NewSiteBuilder creates a builder with every default fragment, a stylesheet,
// branding images, an icon and a manifest.
func NewSiteBuilder(t *testing.T) *SiteBuilder {
	fragments := make(map[string]string, len(defaultFragments))
	for k, v := range defaultFragments {
		fragments[k] = v
	}
	return &SiteBuilder{
		t:         t,
		fragments: fragments,
		files: map[string]string{
			"styles/base.css":             "body { margin: 0; }",
			"shared/branding/logo.png":    "logo-bytes",
			"shared/branding/banner.png":  "banner-bytes",
			"shared/branding/favicon.ico": "icon-bytes",
			"shared/scripts/site.js":      "import { initNavigation } from './lib/nav.js';",
			"shared/scripts/lib/nav.js":   "export function initNavigation() {}",
			"icons/icon-192.png":          "icon-192",
			"assets/js/site.js":           "console.log('pvl');",
			"manifest.json":               `{"name": "Personal Video Library"}`,
		},
	}
}

// WithSection sets the markup of a fragment.
func (sb *SiteBuilder) WithSection(key, markup string) *SiteBuilder {
	sb.fragments[key] = markup
	return sb
}

// WithoutSection removes a fragment.
func (sb *SiteBuilder) WithoutSection(key string) *SiteBuilder {
	delete(sb.fragments, key)
	return sb
}

// WithFile adds or replaces a file relative to the site root.
func (sb *SiteBuilder) WithFile(relativePath, content string) *SiteBuilder {
	sb.files[relativePath] = content
	return sb
}

// WithConfig sets the persisted config.json contents. Without it no config file
// is written.
func (sb *SiteBuilder) WithConfig(tree map[string]any) *SiteBuilder {
	sb.config = tree
	return sb
}

// Build writes the site into a fresh temporary directory and returns its path.
func (sb *SiteBuilder) Build() string {
	sb.t.Helper()
	root := sb.t.TempDir()
	for key, markup := range sb.fragments {
		sb.write(root, filepath.Join("sections", key+".html"), markup)
	}
	for rel, content := range sb.files {
		sb.write(root, rel, content)
	}
	if sb.config != nil {
		data, err := json.MarshalIndent(sb.config, "", "    ")
		if err != nil {
			sb.t.Fatalf("encode config: %v", err)
		}
		sb.write(root, "config.json", string(data))
	}
	return root
}

func (sb *SiteBuilder) write(root, rel, content string) {
	sb.t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), testDirPermissions); err != nil {
		sb.t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), testFilePermissions); err != nil {
		sb.t.Fatalf("write %s: %v", path, err)
	}
}
