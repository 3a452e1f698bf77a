// Package version reports the build of the planpilot binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X".
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version line shown by --version.
func String() string {
	commit, built := Commit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "unknown":
				commit = s.Value
			case s.Key == "vcs.time" && built == "unknown":
				built = s.Value
			}
		}
	}
	return fmt.Sprintf("planpilot dev (commit: %s, built: %s)", short(commit), built)
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
