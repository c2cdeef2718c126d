// Package version reports build information for infscroll.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const develVersion = "(devel)"

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision  = readRevision()
	GoVersion = runtime.Version()
)

// GetVersion returns the ldflags version, then the module version when
// installed with `go install`, then the VCS revision.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != develVersion {
			return v
		}
	}

	return Revision
}

// String returns a one-line build summary.
func String() string {
	s := fmt.Sprintf("%s (revision %s, %s %s/%s)", GetVersion(), Revision, GoVersion, runtime.GOOS, runtime.GOARCH)
	if BuildDate != "" {
		s += ", built " + BuildDate
	}

	return s
}

func readRevision() string {
	rev := "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	dirty := false

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}
