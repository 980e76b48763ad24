package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WritePage writes a rendered page under outDir.
//
// The function ensures:
//   - The output path is relative to outDir (no path traversal)
//   - Parent directories are created if needed
//   - Trailing whitespace is trimmed and exactly one newline ends the file
//   - Existing files are overwritten
//
// It returns the full path of the written file.
func WritePage(outDir, relativePath, html string) (string, error) {
	if outDir == "" {
		return "", errors.New("output directory is required")
	}
	if relativePath == "" {
		return "", errors.New("output path is required")
	}

	cleanRel := filepath.Clean(relativePath)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return "", errors.New("output path must be relative to the output directory")
	}
	fullPath := filepath.Join(outDir, cleanRel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	content := strings.TrimRight(html, " \t\r\n") + "\n"
	// #nosec G306 -- generated pages are served publicly.
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return fullPath, nil
}
