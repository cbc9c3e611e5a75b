// Package version exposes the build metadata stamped into the omnishop
// binary.
package version

import (
	"fmt"
	"runtime"
)

// Stamped through -ldflags "-X github.com/omnishop/omnishop/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// BuildInfo is the JSON form of the build metadata.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Short returns the bare version string.
func Short() string {
	return Version
}

// String returns the one-line human-readable form.
func String() string {
	return fmt.Sprintf("omnishop %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, runtime.Version())
}

// GetInfo combines the stamped values with runtime platform details.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
