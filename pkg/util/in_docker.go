// Package util contains small helpers that don't belong to any other
// package
package util

import "os"

var containerMarkers = []string{
	"/.dockerenv",
	"/run/.containerenv", // podman
}

// IsRunningInContainer reports whether the process runs inside a docker or
// podman container
func IsRunningInContainer() bool {
	return runningIn(containerMarkers)
}

func runningIn(markers []string) bool {
	for _, m := range markers {
		if _, err := os.Stat(m); err == nil {
			return true
		}
	}

	return false
}
