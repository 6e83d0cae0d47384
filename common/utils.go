// Package common provides shared constants, types, and utilities
// used across vpn-status.
package common

import (
	"os"
	"path/filepath"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

// ConfigDirPath returns the path of the configuration directory without creating it.
func ConfigDirPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, ".config", ConfigDirName), nil
}

// GetConfigDir returns the path to the application configuration directory.
// It creates the directory if it doesn't exist.
func GetConfigDir() (string, error) {
	configDir, err := ConfigDirPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", WrapError(err, "failed to create config directory")
	}

	return configDir, nil
}

// GetCacheDir returns the path to the application cache directory.
func GetCacheDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}

	cacheDir := filepath.Join(homeDir, ".cache", ConfigDirName)
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return "", WrapError(err, "failed to create cache directory")
	}

	return cacheDir, nil
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isSymlink checks if a path is a symbolic link.
// Returns false if path doesn't exist.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
