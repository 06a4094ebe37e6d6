package context

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// These are set at build time with -ldflags "-X go.hackfix.me/dbshift/app/context.version=...".
var (
	version = "dev"
	commit  = ""
)

// VersionInfo describes the build of the application.
type VersionInfo struct {
	Semantic  string
	Commit    string
	GoVersion string
}

// String returns the version in a human friendly format.
func (v *VersionInfo) String() string {
	var parts []string
	if v.Commit != "" {
		parts = append(parts, v.Commit)
	}
	if v.GoVersion != "" {
		parts = append(parts, v.GoVersion)
	}
	if len(parts) == 0 {
		return v.Semantic
	}

	return fmt.Sprintf("%s (%s)", v.Semantic, strings.Join(parts, ", "))
}

// GetVersion returns the version of the application, using the build
// information embedded in the binary when the version wasn't set at build time.
func GetVersion() *VersionInfo {
	vi := &VersionInfo{Semantic: version, Commit: commit}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return vi
	}
	vi.GoVersion = bi.GoVersion

	if vi.Semantic == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		vi.Semantic = bi.Main.Version
	}
	if vi.Commit == "" {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				vi.Commit = s.Value[:12]
			}
		}
	}

	return vi
}
