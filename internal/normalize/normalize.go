// Package normalize applies the fixed set of text and markup corrections every
// section fragment goes through before rendering.
package normalize

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Placeholder tokens substituted in fragments.
const (
	BannerPlaceholder = "{{BANNER_IMAGE}}"
	LogoPlaceholder   = "{{LOGO_IMAGE}}"
)

// Default placeholder targets, relative to the site root.
const (
	DefaultBannerPath = "shared/branding/banner.png"
	DefaultLogoHTML   = `<img src="shared/branding/logo.png" alt="PVL Logo" class="logo-img">`
)

// SafeRel is the rel value added to anchors opening a new browsing context.
const SafeRel = "noopener noreferrer"

// Options configures a Normalizer.
type Options struct {
	TextFixes  []TextFix
	BannerPath string
	LogoHTML   string
}

// DefaultOptions returns options with the standard placeholder targets and no text fixes.
func DefaultOptions() Options {
	return Options{BannerPath: DefaultBannerPath, LogoHTML: DefaultLogoHTML}
}

// Normalizer runs the normalization passes in order. It is safe for concurrent use.
type Normalizer struct {
	fixes        []TextFix
	placeholders *strings.Replacer
}

// New builds a Normalizer. It fails when a text fix shares text with a
// placeholder or with markup produced by a later pass: the fix could then match
// across the inserted text on a second run, or break the placeholder.
func New(opts Options) (*Normalizer, error) {
	if err := ValidateTextFixes(opts.TextFixes); err != nil {
		return nil, err
	}
	generated := []string{
		` rel="` + SafeRel + `"`,
		opts.BannerPath,
		opts.LogoHTML,
		BannerPlaceholder,
		LogoPlaceholder,
	}
	for _, fix := range opts.TextFixes {
		for _, g := range generated {
			if g != "" && overlaps(g, fix.Find) {
				return nil, fmt.Errorf("text fix %q overlaps generated markup %q", fix.Find, g)
			}
		}
	}
	return &Normalizer{
		fixes: append([]TextFix(nil), opts.TextFixes...),
		placeholders: strings.NewReplacer(
			BannerPlaceholder, opts.BannerPath,
			LogoPlaceholder, opts.LogoHTML,
		),
	}, nil
}

// Normalize returns the normalized form of raw. Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(raw string) string {
	s := applyTextFixes(raw, n.fixes)
	s = RewriteRootRelative(s)
	s = HardenBlankTargets(s)
	return n.placeholders.Replace(s)
}

var rootRelativeAttr = regexp.MustCompile(`(?i)\b(href|src)=(["'])/+`)

// RewriteRootRelative drops the leading slashes of root-relative href and src values.
// Only slashes directly after the opening quote are removed, so absolute URLs
// and inner path separators are untouched.
func RewriteRootRelative(s string) string {
	return rootRelativeAttr.ReplaceAllString(s, "${1}=${2}")
}

// tagAttr matches one attribute of a raw start tag. Quoted values are consumed
// whole, so attribute-like text inside a value is never matched.
var tagAttr = regexp.MustCompile(`\s+([^\s"'>/=]+)(?:\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]+))?`)

// HardenBlankTargets adds rel="noopener noreferrer" after target="_blank" on
// anchors that declare no rel attribute. Everything else is copied byte for byte.
func HardenBlankTargets(s string) string {
	if !strings.Contains(strings.ToLower(s), "_blank") {
		return s
	}
	var out bytes.Buffer
	out.Grow(len(s) + 64)
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// Unreadable input; keep it as it was.
				return s
			}
			break
		}
		raw := append([]byte(nil), z.Raw()...)
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			if tok := z.Token(); tok.Data == "a" && needsSafeRel(tok.Attr) {
				raw = insertSafeRel(raw)
			}
		}
		out.Write(raw)
	}
	return out.String()
}

func needsSafeRel(attrs []html.Attribute) bool {
	blank := false
	for _, a := range attrs {
		switch a.Key {
		case "rel":
			return false
		case "target":
			blank = blank || strings.EqualFold(a.Val, "_blank")
		}
	}
	return blank
}

func insertSafeRel(tag []byte) []byte {
	end := blankTargetEnd(tag)
	if end < 0 {
		return tag
	}
	out := make([]byte, 0, len(tag)+len(SafeRel)+8)
	out = append(out, tag[:end]...)
	out = append(out, ` rel="`+SafeRel+`"`...)
	return append(out, tag[end:]...)
}

// blankTargetEnd returns the offset just past the target="_blank" attribute of a
// raw anchor tag, or -1.
func blankTargetEnd(tag []byte) int {
	const offset = 2 // len("<a")
	for _, m := range tagAttr.FindAllSubmatchIndex(tag[offset:], -1) {
		if !strings.EqualFold(string(tag[offset+m[2]:offset+m[3]]), "target") || m[4] < 0 {
			continue
		}
		val := strings.Trim(string(tag[offset+m[4]:offset+m[5]]), `"'`)
		if strings.EqualFold(val, "_blank") {
			return offset + m[1]
		}
	}
	return -1
}
