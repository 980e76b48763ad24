package render

import (
	"fmt"
	"html/template"
	"strings"

	"git.home.luguber.info/inful/pvlsite/internal/config"
)

// Tokens is the color palette of a theme, exposed to stylesheets as CSS custom properties.
type Tokens struct {
	Background string
	Surface    string
	Text       string
	Muted      string
	Accent     string
	AccentSoft string
	Border     string
}

var themeTokens = map[config.Theme]Tokens{
	config.ThemeDark: {
		Background: "#0b0f19",
		Surface:    "#151b2b",
		Text:       "#e6e9f2",
		Muted:      "#9aa3b8",
		Accent:     "#6c5ce7",
		AccentSoft: "#a29bfe",
		Border:     "#262e42",
	},
	config.ThemeLight: {
		Background: "#ffffff",
		Surface:    "#f5f6fa",
		Text:       "#1e2233",
		Muted:      "#5c6478",
		Accent:     "#5a4bd6",
		AccentSoft: "#8f85f0",
		Border:     "#dfe3ec",
	},
}

// TokensFor returns the palette of theme, falling back to the dark palette.
func TokensFor(theme config.Theme) Tokens {
	if t, ok := themeTokens[theme]; ok {
		return t
	}
	return themeTokens[config.ThemeDark]
}

// CSS renders the palette as a :root rule.
func (t Tokens) CSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range []struct{ name, value string }{
		{"bg", t.Background},
		{"surface", t.Surface},
		{"text", t.Text},
		{"muted", t.Muted},
		{"accent", t.Accent},
		{"accent-soft", t.AccentSoft},
		{"border", t.Border},
	} {
		fmt.Fprintf(&b, "    --%s: %s;\n", v.name, v.value)
	}
	b.WriteString("}\n")
	return b.String()
}

// styles joins the palette rule with the site stylesheet. Both come from trusted
// sources under the site root.
func styles(tokens Tokens, css string) template.CSS {
	// #nosec G203 -- palette is built in and css is read from the site's own styles directory.
	return template.CSS(tokens.CSS() + css)
}
