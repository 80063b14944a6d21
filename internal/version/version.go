// Package version provides build-time version information.
package version

import "fmt"

// Name is the application name shown in the title bar and logs.
const Name = "Battle Map"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Title returns the window title.
func Title() string {
	return fmt.Sprintf("%s %s", Name, Version)
}
