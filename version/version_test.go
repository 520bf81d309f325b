package version

import (
	"strings"
	"testing"
	"time"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "dev"}, "dev"},
		{"commit", Info{Version: "1.4.0", GitCommit: "3f2a9c1"}, "1.4.0-3f2a9c1"},
		{"dirty", Info{Version: "1.4.0", GitCommit: "3f2a9c1", Dirty: true}, "1.4.0-3f2a9c1-dirty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInfoFull(t *testing.T) {
	info := Info{
		Version:   "1.4.0",
		GoVersion: "go1.26.0",
		BuildDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	got := info.Full()
	if got != "1.4.0 (go1.26.0) built 2026-03-01T12:00:00Z" {
		t.Errorf("Full() = %q", got)
	}
}

func TestGetUsesLinkerVariables(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version, GitCommit = "2.0.0", "abcdef1"
	info := Get()
	if info.Version != "2.0.0" || info.GitCommit != "abcdef1" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(info.String(), "2.0.0-abcdef1") {
		t.Errorf("String() = %q", info.String())
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortCommit = %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("shortCommit = %q", got)
	}
}
