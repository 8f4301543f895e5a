// Package version reports the build version of the binary.
package version

import (
	"runtime/debug"
	"strings"
)

// Version and Commit are set at build time:
//
//	go build -ldflags "-X tvmanager/internal/shared/version.Version=1.2.0"
var (
	Version = "dev"
	Commit  = ""
)

// Normalize ensures version string has "v" prefix.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if version == "dev" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// String returns the normalized version followed by the short commit hash,
// read from the build info when not set explicitly.
func String() string {
	commit := Commit
	if commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
				}
			}
		}
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		return Normalize(Version)
	}
	return Normalize(Version) + " (" + commit + ")"
}
