package filesystem

import (
	"os"
	"path/filepath"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// RigupDir returns the per-user rigup state directory (~/.rigup).
func RigupDir() string {
	return filepath.Join(UserHomeDir(), ".rigup")
}

// ExpandPath resolves ~ prefixes against the user's home directory and
// other relative paths against the working directory.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		return UserHomeDir()
	case len(path) > 1 && path[:2] == "~/":
		return filepath.Join(UserHomeDir(), path[2:])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
