package version

import (
	"fmt"
	"runtime"
)

// Build information, set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// String returns a single-line version description
func String() string {
	if Version == "dev" && len(GitCommit) >= 8 {
		return fmt.Sprintf("healthdash dev-%s (built %s, %s)", GitCommit[:8], BuildDate, GoVersion)
	}
	return fmt.Sprintf("healthdash %s (built %s, %s)", Version, BuildDate, GoVersion)
}
