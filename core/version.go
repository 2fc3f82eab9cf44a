package core

import "fmt"

// Version is the application version, set at build time via ldflags:
//
//	go build -ldflags "-X go_fsr2/core.Version=$(git describe --tags --always)" .
//
// If not set at build time, defaults to "dev".
var Version = "dev"

// BuildTime is the build timestamp, set at build time via ldflags.
var BuildTime = "unknown"

// GitCommit is the git commit hash, set at build time via ldflags.
var GitCommit = "unknown"

const modulePath = "go_fsr2/core"

// GetVersionInfo returns a formatted version information string.
//
// Example: "v1.0.0 (built 2024-01-15T10:30:00Z, commit abc1234)"
func GetVersionInfo() string {
	return Version + " (built " + BuildTime + ", commit " + GitCommit + ")"
}

// BuildLdflags returns the ldflags string for injecting version information.
// Empty arguments are left out.
func BuildLdflags(version, buildTime, gitCommit string) string {
	var flags string
	for _, kv := range [][2]string{{"Version", version}, {"BuildTime", buildTime}, {"GitCommit", gitCommit}} {
		if kv[1] == "" {
			continue
		}
		if flags != "" {
			flags += " "
		}
		flags += fmt.Sprintf("-X %s.%s=%s", modulePath, kv[0], kv[1])
	}
	return flags
}
