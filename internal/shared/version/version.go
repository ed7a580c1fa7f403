// Package version carries build metadata injected with -ldflags.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether Version is a tagged semver release rather than a
// development build.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// String formats the build metadata for logs and --version output.
func String() string {
	return Normalize(Version) + " (" + Commit + ", " + BuildTime + ")"
}
