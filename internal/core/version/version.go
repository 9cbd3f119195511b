// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are set at build time using -ldflags.
func Info() BuildInfo {
	// -ldflags "-X 'diffjar/internal/core/version.version=v0.1.0'
	// -X 'diffjar/internal/core/version.commit=abcd' -X 'diffjar/internal/core/version.date=2026-10-01'"
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	service = "diffjar"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
