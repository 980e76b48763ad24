package assets

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FaviconPath is the favicon location relative to the site root.
var FaviconPath = filepath.Join("shared", "branding", "favicon.ico")

var imageMIME = map[string]string{
	".ico":  "image/x-icon",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".gif":  "image/gif",
}

// MIMEType returns the image MIME type for path's extension, defaulting to image/png.
func MIMEType(path string) string {
	if m, ok := imageMIME[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return "image/png"
}

// DataURI encodes the image at path as a base64 data URI. A missing file yields "".
func DataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return "data:" + MIMEType(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
