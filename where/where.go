// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "SNAPKIT_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The SNAPKIT_CONFIG_PATH environment variable takes precedence over the platform default.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Snapkit))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Snapkit))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Plugins resolves the directory scanned for Lua plugin scripts.
func Plugins() string {
	return ensureDir(filepath.Join(Config(), "plugins"))
}

// Settings resolves the INI file holding the capture settings sections.
func Settings() string {
	return filepath.Join(Config(), constant.Snapkit+".ini")
}

// Captures resolves the default output directory of the File destination.
func Captures() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ensureDir(filepath.Join(Config(), "captures"))
	}
	return filepath.Join(home, "Pictures", constant.Snapkit)
}

// History resolves the export history persistence file.
func History() string {
	return filepath.Join(Cache(), "history.json")
}

// Temp resolves a volatile directory for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Snapkit))
}
