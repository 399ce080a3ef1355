// Package buildinfo holds version information injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/mic-monitor/mic-monitor/internal/buildinfo.Version=1.2.0"
package buildinfo

import "fmt"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary is a one-line description for logs.
func Summary() string {
	return fmt.Sprintf("mic-monitor %s (%s, built %s)", Version, CommitHash, BuildDate)
}
