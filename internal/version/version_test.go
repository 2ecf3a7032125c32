package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name       string
		ver        string
		commit     string
		bi         *debug.BuildInfo
		wantVer    string
		wantCommit string
	}{
		{"ldflags win", "v1.0.0", "feed", bi, "v1.0.0", "feed"},
		{"vcs stamp", "", "", bi, "dev", "0123456"},
		{"no build info", "", "", nil, "dev", "unknown"},
		{"module version", "", "", &debug.BuildInfo{Main: debug.Module{Version: "v0.2.1"}}, "v0.2.1", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(tt.ver, tt.commit, tt.bi)
			if got.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", got.Version, tt.wantVer)
			}
			if got.Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", got.Commit, tt.wantCommit)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	s := Info{Version: "v1", Commit: "abc", Dirty: true, GoVersion: "go1.24"}.String()
	if !strings.Contains(s, "abc-dirty") || !strings.HasPrefix(s, "v1 ") {
		t.Errorf("String() = %q", s)
	}
}
