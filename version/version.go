package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags -X. Empty values fall back to the build info.
var (
	Version string
	Commit  string
	Date    string
)

const unknown = "unknown"

// Info describes the running binary.
type Info struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Modified bool   `json:"modified"`
}

// Get resolves version information from the ldflags variables and the
// module and VCS data recorded by the go command, in that order.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi)
	}
	if info.Version == "" {
		info.Version = "development"
	}
	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.Date == "" {
		info.Date = unknown
	}
	return info
}

func (i *Info) fill(bi *debug.BuildInfo) {
	if i.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "" {
				i.Commit = s.Value
			}
		case "vcs.time":
			if i.Date == "" {
				i.Date = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// String renders the version for --version output, e.g.
// "v1.2.0 (0123456, built 2026-01-01T00:00:00Z)". A dirty work tree is marked
// with "+dirty" after the commit.
func (i Info) String() string {
	if i.Commit == unknown || len(i.Commit) < 7 {
		return i.Version
	}
	commit := i.Commit[:7]
	if i.Modified {
		commit += "+dirty"
	}
	if i.Date == unknown {
		return fmt.Sprintf("%s (%s)", i.Version, commit)
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Version, commit, i.Date)
}
