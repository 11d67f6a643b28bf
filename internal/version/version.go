package version

import "fmt"

// Set at build time with -ldflags
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
