// Package version holds build-time identification for the CLI, overridden
// at link time via -ldflags.
package version

var (
	name   = "chordscope"
	number = "dev"
	commit = "none"
)

// Name returns the CLI's program name.
func Name() string { return name }

// Version returns the build version string.
func Version() string { return number }

// Commit returns the build's VCS commit hash.
func Commit() string { return commit }
