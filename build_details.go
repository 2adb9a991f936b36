package o2t

import (
	"fmt"
	"runtime"
)

var (
	// version, commit and buildTime are set via ldflags by the release build.
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from, or 'unknown'.
func Commit() string {
	return commit
}

// BuildTime returns the RFC3339 build timestamp, or 'unknown'.
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version used to build the binary.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent returns the User-Agent string used when fetching source documents.
func UserAgent() string {
	return fmt.Sprintf("o2t/%s", version)
}

// BuildInfo returns all build metadata as a multi-line string.
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild Time: %s\nGo Version: %s\n",
		Version(), Commit(), BuildTime(), GoVersion())
}
