package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
)

// LoadCSSModules concatenates every .css file in dir, sorted by name. Each module
// is preceded by a comment naming its file. A missing directory yields "".
func LoadCSSModules(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read styles directory").
			WithContext("path", dir).
			Build()
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".css") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read stylesheet").
				WithContext("path", filepath.Join(dir, name)).
				Build()
		}
		b.WriteString("/* " + name + " */\n")
		b.WriteString(strings.TrimSpace(string(data)))
		b.WriteString("\n")
	}
	return b.String(), nil
}
