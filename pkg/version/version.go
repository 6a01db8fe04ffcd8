// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata, overridden at link time:
//
//	-ldflags "-X github.com/Sumatoshi-tech/turncost/pkg/version.Version=v1.2.0"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build metadata. When Commit was not injected, the VCS
// revision recorded by the Go toolchain is used if available.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.GoVersion = bi.GoVersion

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = setting.Value
			}
		}
	}

	return info
}

// String renders the info as a single line, e.g. "turncost dev (commit: abc, built: 2024-01-01)".
func (i Info) String() string {
	return fmt.Sprintf("turncost %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
