package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultString returns fallback if v is empty or whitespace-only.
func DefaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// EmptyDash renders a blank table cell as "-".
func EmptyDash(s string) string {
	return DefaultString(s, "-")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
