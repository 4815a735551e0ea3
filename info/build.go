package info

import (
	"runtime/debug"
	"time"
)

// BuildInfo is the payload of GET /version.
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	StartedAt string `json:"started_at"`
}

// ReadBuildInfo describes the running binary. Commit and Go version come from
// the embedded module information; an empty version falls back to the main
// module version.
func ReadBuildInfo(service, version string, startedAt time.Time) BuildInfo {
	build := BuildInfo{
		Service:   service,
		Version:   version,
		StartedAt: startedAt.UTC().Format(time.RFC3339),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return build
	}
	build.GoVersion = bi.GoVersion
	if build.Version == "" {
		build.Version = bi.Main.Version
	}
	for _, setting := range bi.Settings {
		if setting.Key == "vcs.revision" {
			build.Commit = setting.Value
			break
		}
	}
	return build
}
