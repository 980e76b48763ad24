// Package navstate marks the navigation entries pointing at the page being rendered.
package navstate

import (
	"bytes"
	"html"
	"io"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"

	"git.home.luguber.info/inful/pvlsite/internal/util/sets"
)

// Class tokens added to matching anchors.
const (
	NavActiveClass    = "active"
	FooterActiveClass = "current-page"
)

// MarkActive returns copies of the navigation and footer markup where anchors
// linking to pageFile carry the active and current-page classes respectively.
// Markup without a matching anchor is returned unchanged.
func MarkActive(nav, footer, pageFile string) (string, string) {
	return AddClass(nav, pageFile, NavActiveClass), AddClass(footer, pageFile, FooterActiveClass)
}

// AddClass appends class to every anchor whose href equals href exactly.
// Existing classes keep their order and a class already present is not repeated.
// Tags that need no change are copied byte for byte.
func AddClass(markup, href, class string) string {
	if href == "" || !strings.Contains(markup, href) {
		return markup
	}
	var out bytes.Buffer
	out.Grow(len(markup) + len(class) + 16)
	changed := false
	z := nethtml.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			if z.Err() != io.EOF {
				return markup
			}
			break
		}
		raw := append([]byte(nil), z.Raw()...)
		if tt == nethtml.StartTagToken || tt == nethtml.SelfClosingTagToken {
			tok := z.Token()
			if tok.Data == "a" && attr(tok.Attr, "href") == href {
				if updated, ok := withClass(raw, tok.Attr, class); ok {
					raw = updated
					changed = true
				}
			}
		}
		out.Write(raw)
	}
	if !changed {
		return markup
	}
	return out.String()
}

func attr(attrs []nethtml.Attribute, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(attrs []nethtml.Attribute, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// tagAttr matches one attribute of a raw start tag. Quoted values are consumed
// whole, so attribute-like text inside a value is never matched.
var tagAttr = regexp.MustCompile(`\s+([^\s"'>/=]+)(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]+))?`)

// withClass rewrites the raw anchor tag so its class list includes class.
// It reports false when the class is already present.
func withClass(tag []byte, attrs []nethtml.Attribute, class string) ([]byte, bool) {
	if !hasAttr(attrs, "class") {
		// The tag name is "a", so the attribute goes right after "<a".
		out := make([]byte, 0, len(tag)+len(class)+10)
		out = append(out, tag[:2]...)
		out = append(out, ` class="`+html.EscapeString(class)+`"`...)
		return append(out, tag[2:]...), true
	}
	tokens := sets.NewOrdered(strings.Fields(attr(attrs, "class"))...)
	if !tokens.Add(class) {
		return tag, false
	}
	start, end := classSpan(tag)
	if start < 0 {
		return tag, false
	}
	out := make([]byte, 0, len(tag)+len(class)+4)
	out = append(out, tag[:start]...)
	out = append(out, `class="`+html.EscapeString(strings.Join(tokens.Values(), " "))+`"`...)
	return append(out, tag[end:]...), true
}

// classSpan locates the first class attribute in a raw tag, excluding the
// whitespace before it.
func classSpan(tag []byte) (int, int) {
	const offset = 2 // len("<a")
	for _, m := range tagAttr.FindAllSubmatchIndex(tag[offset:], -1) {
		if strings.EqualFold(string(tag[offset+m[2]:offset+m[3]]), "class") {
			return offset + m[2], offset + m[1]
		}
	}
	return -1, -1
}
