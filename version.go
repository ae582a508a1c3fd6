package main

import (
	"runtime/debug"
	"strings"
)

// buildVersion is stamped at release time via
// -ldflags "-X main.buildVersion=v1.2.3".
var buildVersion string

var readBuildInfo = debug.ReadBuildInfo

// currentVersion prefers the stamped release version and falls back to the
// module version the toolchain records for go-installed builds.
func currentVersion() string {
	if v := strings.TrimSpace(buildVersion); v != "" {
		return v
	}

	info, ok := readBuildInfo()
	if !ok || info == nil {
		return "devel"
	}
	v := strings.TrimSpace(info.Main.Version)
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}
