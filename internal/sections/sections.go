// Package sections loads the section fragments a site is assembled from.
package sections

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/logfields"
	"git.home.luguber.info/inful/pvlsite/internal/markdown"
	"git.home.luguber.info/inful/pvlsite/internal/normalize"
)

// Fragment keys shared by every page.
const (
	Header           = "header"
	Navigation       = "navigation"
	PolicyNavigation = "policy_navigation"
	Footer           = "footer"
	SuccessModal     = "success_modal"
)

// Chrome lists the fragments rendered on every page.
var Chrome = []string{Header, Navigation, PolicyNavigation, Footer}

// Set is an immutable mapping from fragment key to normalized markup.
type Set struct {
	fragments map[string]string
}

// NewSet builds a Set from already-normalized fragments. The map is copied.
func NewSet(fragments map[string]string) *Set {
	m := make(map[string]string, len(fragments))
	for k, v := range fragments {
		m[k] = v
	}
	return &Set{fragments: m}
}

// With returns a new Set where the given fragments replace those of s.
// s itself is not modified.
func (s *Set) With(replacements map[string]string) *Set {
	m := make(map[string]string, len(s.fragments)+len(replacements))
	for k, v := range s.fragments {
		m[k] = v
	}
	for k, v := range replacements {
		m[k] = v
	}
	return &Set{fragments: m}
}

// Get returns the fragment for key.
func (s *Set) Get(key string) (string, bool) {
	v, ok := s.fragments[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Set) Has(key string) bool {
	_, ok := s.fragments[key]
	return ok
}

// Keys returns all fragment keys sorted.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.fragments))
	for k := range s.fragments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fragments.
func (s *Set) Len() int { return len(s.fragments) }

// Require returns a MissingSectionError naming every absent key, or nil.
func (s *Set) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !s.Has(k) && !slices.Contains(missing, k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return ferrors.MissingSectionError(missing)
	}
	return nil
}

// Loader reads fragment files from a directory. Files ending in .html are taken
// as markup, files ending in .md are rendered from Markdown first. Every fragment
// is normalized once.
type Loader struct {
	Normalizer *normalize.Normalizer
	Markdown   *markdown.Renderer
}

// Load reads every fragment in dir. A missing directory yields an empty Set so
// that required-key checks report exactly which fragments are absent.
func (l *Loader) Load(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Sections directory not found", logfields.Path(dir))
		return NewSet(nil), nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read sections directory").
			WithContext("path", dir).
			Build()
	}

	// ReadDir sorts by name, so key.html is always seen before key.md.
	fragments := make(map[string]string)
	fromHTML := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".html" && ext != ".md" {
			continue
		}
		key := strings.TrimSuffix(name, filepath.Ext(name))
		if ext == ".md" && fromHTML[key] {
			slog.Warn("Markdown section shadowed by HTML file", logfields.Section(key))
			continue
		}

		path := filepath.Join(dir, name)
		markup, err := l.read(path, ext)
		if err != nil {
			return nil, err
		}
		fragments[key] = l.Normalizer.Normalize(markup)
		fromHTML[key] = ext == ".html"
		slog.Debug("Loaded section", logfields.Section(key), logfields.Path(path))
	}
	return NewSet(fragments), nil
}

func (l *Loader) read(path, ext string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read section").
			WithContext("path", path).
			Build()
	}
	if ext != ".md" {
		return string(data), nil
	}
	md := l.Markdown
	if md == nil {
		md = markdown.NewRenderer()
	}
	out, err := md.Render(data)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "render markdown section").
			WithContext("path", path).
			Build()
	}
	return out, nil
}
