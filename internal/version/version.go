// Package version carries toolhub build metadata, injected at build time via
// -ldflags "-X github.com/HerbHall/toolhub/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

// Name is the product name reported by the CLI and the health endpoint.
const Name = "toolhub"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the one-line description printed by `toolhub version`.
func Info() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s)",
		Name, Version, GitCommit, BuildDate, runtime.Version())
}

// Short returns the bare version, e.g. "0.3.1" or "dev".
func Short() string {
	return Version
}

// UserAgent identifies toolhub in outbound HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}

// Map returns the build metadata for JSON responses.
func Map() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
}
