// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/longkey1/weatherbot/internal/version.Version=v1.0.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Short returns the version number only
func Short() string {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return Version
}

// Info returns the full version information
func Info() string {
	return fmt.Sprintf("weatherbot %s\n  commit:     %s\n  built:      %s\n  go version: %s\n  platform:   %s/%s",
		Short(), Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
