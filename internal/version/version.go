// Package version carries build metadata set with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short is "Shoppingify <version>".
func Short() string {
	return "Shoppingify " + resolved()
}

// Info adds commit, build date and platform to Short.
func Info() string {
	if Version == "dev" {
		return fmt.Sprintf("%s (%s/%s)", Short(), runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, %s/%s)", Short(), Commit, Date, runtime.GOOS, runtime.GOARCH)
}

// resolved falls back to the module version when installed with go install.
func resolved() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}
