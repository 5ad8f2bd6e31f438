package utils

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/raven-betanet/elf-decoder/internal/utils.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s %s/%s)",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
