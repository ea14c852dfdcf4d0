package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DBFileName is the store file shared by every process in a storage group.
const DBFileName = "recipebox.db"

// GetDefaultDBPathOnly returns a system-appropriate default path for the store
// of the given storage group. The app and its share extension use the same
// group so they open the same file.
func GetDefaultDBPathOnly(group string) string {
	if group == "" {
		group = "recipebox"
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DBFileName
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", group, DBFileName)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Group Containers", group, DBFileName)
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", group, DBFileName)
	}
}

// ResolveAndEnsureDBPath expands and absolutizes providedPath (or the group
// default when empty) and creates its parent directory.
func ResolveAndEnsureDBPath(providedPath, group string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultDBPathOnly(group)
	}

	if strings.HasPrefix(targetPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", targetPath, err)
		}
		targetPath = filepath.Join(homeDir, targetPath[2:])
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}
	targetPath = absPath

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}
