package git

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Revision identifies the commit checked out in a working tree.
type Revision struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// ErrNotRepository is returned when path is not inside a git working tree.
var ErrNotRepository = errors.New("not a git repository")

// ReadRevision returns the HEAD revision of the repository containing path.
// Parent directories are searched for the .git directory. Changes under the
// ignore paths, relative to path unless absolute, do not make the tree dirty.
func ReadRevision(path string, ignore ...string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Revision{}, ErrNotRepository
	}
	if err != nil {
		return Revision{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return Revision{}, err
	}
	rev := Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return rev, nil
	}
	status, err := wt.Status()
	if err != nil {
		return rev, nil
	}
	prefixes := ignoredPrefixes(wt.Filesystem.Root(), path, ignore)
	for file, st := range status {
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		if !underPrefix(file, prefixes) {
			rev.Dirty = true
			break
		}
	}
	return rev, nil
}

// ignoredPrefixes maps the ignore paths to slash-separated paths relative to
// the worktree root, the form status entries use. Paths outside the worktree
// are dropped.
func ignoredPrefixes(wtRoot, base string, ignore []string) []string {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range ignore {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absBase, p)
		}
		rel, err := filepath.Rel(wtRoot, p)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func underPrefix(file string, prefixes []string) bool {
	for _, p := range prefixes {
		if file == p || strings.HasPrefix(file, p+"/") {
			return true
		}
	}
	return false
}
