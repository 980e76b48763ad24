// Package version holds build metadata injected at link time.
package version

import "fmt"

// Version is the release version. Set via ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/pvlsite/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("pvlsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
