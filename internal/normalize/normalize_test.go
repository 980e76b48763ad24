package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T, fixes ...TextFix) *Normalizer {
	t.Helper()
	opts := DefaultOptions()
	opts.TextFixes = fixes
	n, err := New(opts)
	require.NoError(t, err)
	return n
}

func TestRewriteRootRelative(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"href", `<a href="/privacy_policy.html">`, `<a href="privacy_policy.html">`},
		{"src", `<img src="/shared/branding/logo.png">`, `<img src="shared/branding/logo.png">`},
		{"multiple slashes", `<a href="//cdn/x.js">`, `<a href="cdn/x.js">`},
		{"single quotes", `<a href='/a/b'>`, `<a href='a/b'>`},
		{"uppercase attribute", `<A HREF="/x">`, `<A HREF="x">`},
		{"absolute url", `<a href="https://x.com/y">`, `<a href="https://x.com/y">`},
		{"inner slashes", `<a href="docs/a/b.html">`, `<a href="docs/a/b.html">`},
		{"fragment", `<a href="#pricing">`, `<a href="#pricing">`},
		{"text mention", `see href=/x`, `see href=/x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteRootRelative(tt.in))
		})
	}
}

func TestHardenBlankTargets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "adds rel after target",
			in:   `<a href="https://x.com" target="_blank" class="ext">X</a>`,
			want: `<a href="https://x.com" target="_blank" rel="noopener noreferrer" class="ext">X</a>`,
		},
		{
			name: "existing rel untouched",
			in:   `<a href="https://x.com" target="_blank" rel="nofollow">X</a>`,
			want: `<a href="https://x.com" target="_blank" rel="nofollow">X</a>`,
		},
		{
			name: "rel before target untouched",
			in:   `<a rel="me" target="_blank" href="x">X</a>`,
			want: `<a rel="me" target="_blank" href="x">X</a>`,
		},
		{
			name: "uppercase attribute names",
			in:   `<A HREF="x" TARGET="_blank">X</A>`,
			want: `<A HREF="x" TARGET="_blank" rel="noopener noreferrer">X</A>`,
		},
		{
			name: "uppercase rel counts",
			in:   `<a target="_blank" REL="external">X</a>`,
			want: `<a target="_blank" REL="external">X</a>`,
		},
		{
			name: "data attribute named like target",
			in:   `<a data-target="_blank" target="_blank" href="x">X</a>`,
			want: `<a data-target="_blank" target="_blank" rel="noopener noreferrer" href="x">X</a>`,
		},
		{
			name: "target text inside another value",
			in:   `<a title='target="_blank"' target=_blank>X</a>`,
			want: `<a title='target="_blank"' target=_blank rel="noopener noreferrer">X</a>`,
		},
		{
			name: "non anchor ignored",
			in:   `<form target="_blank"></form>`,
			want: `<form target="_blank"></form>`,
		},
		{
			name: "other target ignored",
			in:   `<a target="_self" href="x">X</a>`,
			want: `<a target="_self" href="x">X</a>`,
		},
		{
			name: "surrounding markup preserved",
			in:   "<div>\n  <p>Hi &amp; bye</p>\n  <a target=\"_blank\">a</a><br/>\n</div>\n",
			want: "<div>\n  <p>Hi &amp; bye</p>\n  <a target=\"_blank\" rel=\"noopener noreferrer\">a</a><br/>\n</div>\n",
		},
		{
			name: "no blank target",
			in:   `<a href="x">X</a>`,
			want: `<a href="x">X</a>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HardenBlankTargets(tt.in))
		})
	}
}

func TestNormalizePlaceholders(t *testing.T) {
	n := newDefault(t)

	got := n.Normalize(`<header style="background:url({{BANNER_IMAGE}})">{{LOGO_IMAGE}}</header>`)

	assert.Equal(t,
		`<header style="background:url(shared/branding/banner.png)"><img src="shared/branding/logo.png" alt="PVL Logo" class="logo-img"></header>`,
		got)
	assert.NotContains(t, got, "{{")
}

func TestNormalizeTextFixes(t *testing.T) {
	n := newDefault(t, TextFix{Find: "talkshow", Replace: "talk show"})

	assert.Equal(t, "<p>A talk show and another talk show</p>", n.Normalize("<p>A talkshow and another talkshow</p>"))
}

func TestNormalizeAbsoluteURLUnchanged(t *testing.T) {
	n := newDefault(t)

	assert.Equal(t, `<a href="https://x.com/y">`, n.Normalize(`<a href="https://x.com/y">`))
}

func TestNormalizeDoesNotDoubleInsertRel(t *testing.T) {
	n := newDefault(t)
	in := `<a href="https://x.com" target="_blank" rel="nofollow">x</a>`

	assert.Equal(t, in, n.Normalize(in))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newDefault(t,
		TextFix{Find: "talkshow", Replace: "talk show"},
		TextFix{Find: "vidoe", Replace: "video"},
	)
	samples := []string{
		``,
		`plain text`,
		`<p>aaab talkshow talkshowtalkshow talktalkshowshow vividoeoe</p>`,
		`<a href="/index.html" target="_blank">home</a>`,
		`<a href="//x" target='_blank'>x</a><a target=_blank href="/y">y</a>`,
		`<img src="/{{BANNER_IMAGE}}"> {{LOGO_IMAGE}} {{LOGO_IMAGE}}`,
		`<nav><a class="nav-link" href="/privacy_policy.html">Privacy</a></nav>`,
		`<script>var a = '<a target="_blank">';</script>`,
		`<a href="https://x.com" target="_blank" rel="nofollow">x</a>`,
		`<div><a target="_BLANK">broken <b>markup</div>`,
	}
	for _, s := range samples {
		t.Run(s, func(t *testing.T) {
			once := n.Normalize(s)
			assert.Equal(t, once, n.Normalize(once))
		})
	}
}

func TestNormalizeWithoutLinksOrPlaceholdersOnlyAppliesFixes(t *testing.T) {
	n := newDefault(t, TextFix{Find: "colour", Replace: "color"})
	in := "<section class=\"about\">\n  <h2>Our colour</h2>\n</section>"

	assert.Equal(t, "<section class=\"about\">\n  <h2>Our color</h2>\n</section>", n.Normalize(in))
}

func TestNewRejectsFixMatchingGeneratedMarkup(t *testing.T) {
	for _, find := range []string{
		"noopener",   // inside the rel attribute
		"PVL Logo",   // inside the logo markup
		"png and",    // starts inside the banner path
		"see shared", // ends inside the banner path
		"IMAGE}}",    // would break a placeholder
		" rel",       // starts inside the inserted rel attribute
	} {
		t.Run(find, func(t *testing.T) {
			opts := DefaultOptions()
			opts.TextFixes = []TextFix{{Find: find, Replace: "x"}}
			_, err := New(opts)
			require.Error(t, err)
		})
	}
}

func TestNewRejectsCollapsingFix(t *testing.T) {
	opts := DefaultOptions()
	opts.TextFixes = []TextFix{{Find: "  ", Replace: " "}}

	_, err := New(opts)
	require.Error(t, err)
}

func TestNormalizeIdempotentAcrossAdjacentMatches(t *testing.T) {
	n := newDefault(t,
		TextFix{Find: "colour", Replace: "color"},
		TextFix{Find: "vidoe", Replace: "video"},
	)
	samples := []string{
		"<p>a" + strings.Repeat(" ", 600) + "b</p>",
		"colcolourour vividoeoe",
		"<img src=\"{{BANNER_IMAGE}}\">png and colour",
	}
	for _, s := range samples {
		once := n.Normalize(s)
		assert.Equal(t, once, n.Normalize(once))
	}
}
