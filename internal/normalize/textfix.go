package normalize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
)

// TextFix is one literal content correction.
type TextFix struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
}

type textFixFile struct {
	Fixes []TextFix `yaml:"fixes"`
}

// markupChars may not appear in a Find value. Fixes target prose, and a find
// containing markup could start matching after the link passes rewrote a tag.
const markupChars = `<>"'=`

// LoadTextFixes reads the text fix table from a YAML file. A missing file yields
// an empty table.
func LoadTextFixes(path string) ([]TextFix, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read text fix table").
			WithContext("path", path).
			Build()
	}
	var file textFixFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse text fix table").
			WithContext("path", path).
			Build()
	}
	if err := ValidateTextFixes(file.Fixes); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid text fix table").
			WithContext("path", path).
			Build()
	}
	return file.Fixes, nil
}

// ValidateTextFixes rejects tables that could not be applied idempotently in a
// single sweep. Every find must be non-empty plain text. No replacement may
// overlap any find, so a replacement can never complete a match together with
// its neighbouring text. A removal joins the text around it, which is only safe
// when every find is a single character.
func ValidateTextFixes(fixes []TextFix) error {
	multiChar := false
	for i, fix := range fixes {
		if fix.Find == "" {
			return fmt.Errorf("fix %d: empty find value", i)
		}
		if strings.ContainsAny(fix.Find, markupChars) {
			return fmt.Errorf("fix %d: find %q contains markup characters", i, fix.Find)
		}
		multiChar = multiChar || len([]rune(fix.Find)) > 1
	}
	for i, fix := range fixes {
		if fix.Replace == "" {
			if multiChar {
				return fmt.Errorf("fix %d: removing %q could join surrounding text into a find value", i, fix.Find)
			}
			continue
		}
		for _, other := range fixes {
			if overlaps(fix.Replace, other.Find) {
				return fmt.Errorf("fix %d: replacement %q overlaps find value %q", i, fix.Replace, other.Find)
			}
		}
	}
	return nil
}

// overlaps reports whether a and b share text: one contains the other, or a
// suffix of one is a prefix of the other.
func overlaps(a, b string) bool {
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	for k := 1; k < len(a) && k < len(b); k++ {
		if a[len(a)-k:] == b[:k] || b[len(b)-k:] == a[:k] {
			return true
		}
	}
	return false
}

// applyTextFixes replaces every occurrence of each find value, in table order.
// ValidateTextFixes guarantees no find survives or reappears, so one sweep is stable.
func applyTextFixes(s string, fixes []TextFix) string {
	for _, fix := range fixes {
		s = strings.ReplaceAll(s, fix.Find, fix.Replace)
	}
	return s
}
