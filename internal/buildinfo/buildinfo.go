// Package buildinfo carries version stamps set with -ldflags -X.
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version if stamped, else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the full stamp printed by -version.
func String() string {
	return fmt.Sprintf("watchface %s (commit %s, built %s)", Version, Commit, Date)
}
