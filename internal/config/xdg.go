// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "devlevel"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultRubricPath returns the user rubric path used when none is configured
// and the file exists.
func DefaultRubricPath() string {
	return filepath.Join(XDGConfigHome(), appName, "rubric.toml")
}
