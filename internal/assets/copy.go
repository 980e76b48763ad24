// Package assets copies static site files and prepares inlined resources.
package assets

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/logfields"
)

// StaticTrees are the directories copied verbatim into every output target.
var StaticTrees = []string{
	filepath.Join("shared", "branding"),
	filepath.Join("shared", "scripts"),
	"icons",
	"assets",
}

// Manifest is the web app manifest copied into every output target.
const Manifest = "manifest.json"

// CopyStatic copies the static trees and the manifest from root into outDir,
// overwriting existing copies. Missing sources are skipped with a warning.
// It returns the number of sources copied.
func CopyStatic(root, outDir string) (int, error) {
	copied := 0
	for _, rel := range StaticTrees {
		src := filepath.Join(root, rel)
		if !exists(src) {
			slog.Warn("Static directory not found, skipping", logfields.Path(src))
			continue
		}
		if err := CopyDir(src, filepath.Join(outDir, rel)); err != nil {
			return copied, ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy static directory").
				WithContext("path", src).
				Build()
		}
		copied++
	}

	src := filepath.Join(root, Manifest)
	if !exists(src) {
		slog.Warn("Manifest not found, skipping", logfields.Path(src))
		return copied, nil
	}
	if err := copyFile(src, filepath.Join(outDir, Manifest)); err != nil {
		return copied, ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy manifest").
			WithContext("path", src).
			Build()
	}
	return copied + 1, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// CopyDir recursively copies a directory tree, replacing files that already
// exist at the destination.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// copyFile copies a single file from src to dst
func copyFile(src, dst string) error {
	// #nosec G304 -- src is a path under the site root.
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// Preserve file permissions
	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
