// Package version reports the build version of slhttpd binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set at link time:
//
//	go build -ldflags="-X github.com/muurk/slhttpd/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/slhttpd/internal/version.Commit=abc1234"
var (
	Version = ""
	Commit  = ""
)

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	Dirty     bool
	GoVersion string
}

var (
	once sync.Once
	info Info
)

// Get returns build information, filling gaps left by ldflags from the
// module's embedded VCS stamp.
func Get() Info {
	once.Do(func() {
		info = resolve(Version, Commit, readBuildInfo())
	})
	return info
}

func readBuildInfo() *debug.BuildInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return bi
}

func resolve(ver, commit string, bi *debug.BuildInfo) Info {
	out := Info{Version: ver, Commit: commit, GoVersion: runtime.Version()}

	if bi != nil {
		if out.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			out.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if out.Commit == "" {
					out.Commit = s.Value
					if len(out.Commit) > 7 {
						out.Commit = out.Commit[:7]
					}
				}
			case "vcs.modified":
				out.Dirty = s.Value == "true"
			}
		}
	}

	if out.Version == "" {
		out.Version = "dev"
	}
	if out.Commit == "" {
		out.Commit = "unknown"
	}
	return out
}

// String formats the info for `version` output.
func (i Info) String() string {
	commit := i.Commit
	if i.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s, %s)", i.Version, commit, i.GoVersion)
}
