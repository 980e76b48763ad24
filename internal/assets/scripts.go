package assets

import (
	"path/filepath"
)

// ScriptEntry is the ES module that boots the site scripts. It lives in a
// static tree, so the modules it imports are copied alongside it.
const ScriptEntry = "shared/scripts/site.js"

// ScriptSrc returns the page-relative URL of the script entry under root, or ""
// when the site ships no scripts.
func ScriptSrc(root string) string {
	if !exists(filepath.Join(root, filepath.FromSlash(ScriptEntry))) {
		return ""
	}
	return ScriptEntry
}
