// Package paths resolves where inka keeps its configuration and its save
// file.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDir is the directory name used under the platform base directories.
const appDir = "inka"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "INKA_CONFIG_DIR"
	EnvDataDir   = "INKA_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/inka (fallback ~/.config/inka)
// macOS:   ~/Library/Application Support/inka
// Windows: %APPDATA%/inka
func DefaultConfigDir() (string, error) {
	return xdgOrUserDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/inka (fallback ~/.local/share/inka)
// macOS:   ~/Library/Application Support/inka
// Windows: %APPDATA%/inka
func DefaultDataDir() (string, error) {
	return xdgOrUserDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgOrUserDir(xdgVar, homeFallback string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDir), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, appDir), nil
}

// ResolveConfigDir returns the configuration directory: flag, then
// INKA_CONFIG_DIR, then DefaultConfigDir. Overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok || err != nil {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: flag, then INKA_DATA_DIR, then
// the data_dir value from config.yaml, then DefaultDataDir. Overrides are
// made absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvDataDir), configValue); ok || err != nil {
		return dir, err
	}
	return DefaultDataDir()
}

// firstAbs returns the first non-empty candidate as an absolute path.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		return abs, true, err
	}
	return "", false, nil
}
