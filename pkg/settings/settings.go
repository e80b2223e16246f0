// Package settings provides build metadata, per-invocation runtime settings
// and context helpers shared by the jsonpeek CLI and its packages.
package settings

import "time"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jsonpeek"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Source describes where the document of this run comes from.
type Source struct {
	// Address is the URL, file path or "-" for stdin. Empty starts the
	// TUI with an empty URL input.
	Address string
	FromCli bool
}

// Run holds the settings of a single execution of the application.
type Run struct {
	MinLogLevel int8
	LogFile     string
	Source      Source
	Interactive bool
	Output      string
	Theme       string
	NoColor     bool
	NoHistory   bool
	Timeout     time.Duration
	ExitOnError bool
}

// NewCliParams returns the defaults used when running from the command line.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Source: Source{
			FromCli: true,
		},
		Output:      "rows",
		ExitOnError: true,
	}
}
