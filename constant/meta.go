// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Snapkit is the canonical application identifier used for filesystem paths and CLI branding.
	Snapkit = "snapkit"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the HTTP User-Agent string sent to upload services.
	UserAgent = Snapkit + "/" + Version
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// runtime.GOOS values the viewer launcher distinguishes.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
