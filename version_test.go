package main

import (
	"runtime/debug"
	"testing"
)

func stubVersionSources(t *testing.T, stamped string, info *debug.BuildInfo, ok bool) {
	t.Helper()
	oldStamped := buildVersion
	oldReadBuildInfo := readBuildInfo
	t.Cleanup(func() {
		buildVersion = oldStamped
		readBuildInfo = oldReadBuildInfo
	})
	buildVersion = stamped
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, ok }
}

func TestCurrentVersion_StampedVersionWins(t *testing.T) {
	stubVersionSources(t, " v2.1.0 ", &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
	}, true)

	if got := currentVersion(); got != "v2.1.0" {
		t.Fatalf("expected stamped version, got %q", got)
	}
}

func TestCurrentVersion_ModuleVersionWhenUnstamped(t *testing.T) {
	stubVersionSources(t, "", &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
	}, true)

	if got := currentVersion(); got != "v0.4.1" {
		t.Fatalf("expected module version, got %q", got)
	}
}

func TestCurrentVersion_DevelFallback(t *testing.T) {
	cases := []struct {
		name string
		info *debug.BuildInfo
		ok   bool
	}{
		{name: "no build info", info: nil, ok: false},
		{name: "devel module version", info: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, ok: true},
		{name: "empty module version", info: &debug.BuildInfo{Main: debug.Module{}}, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stubVersionSources(t, "", tc.info, tc.ok)
			if got := currentVersion(); got != "devel" {
				t.Fatalf("expected devel, got %q", got)
			}
		})
	}
}
