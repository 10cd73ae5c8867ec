package status

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set through -ldflags "-X github.com/nuts-foundation/charm-calculator/component/status.GitVersion=v1.0.0".
var (
	GitCommit  string
	GitVersion string
	GitBranch  = "development"
)

// Version returns the release tag, or the branch for untagged builds.
func Version() string {
	if GitVersion != "" && GitVersion != "undefined" {
		return GitVersion
	}
	return GitBranch
}

// Commit returns the commit the binary was built from. Without -ldflags, the VCS revision
// embedded by the Go toolchain is used, if any.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "0"
}

func OSArch() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// BuildInfo returns the version information printed by the version command.
func BuildInfo() string {
	return fmt.Sprintf("Git version: %s\nGit commit: %s\nOS/Arch: %s\n", Version(), Commit(), OSArch())
}
