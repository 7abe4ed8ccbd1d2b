package version

import "fmt"

var (
	// Version is the release of the packaging tools. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA the tools were built from (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version with commit and build time for the `version` subcommand.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
