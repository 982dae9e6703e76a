// Package version holds langprint build metadata, set with
// -ldflags "-X github.com/kailas-cloud/langprint/internal/version.Version=...".
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
