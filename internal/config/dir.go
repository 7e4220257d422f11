// Package config resolves the nbjekyll configuration directory and loads
// configuration files, environment overrides and flags into a validated
// Config.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user configuration directory.
const appName = "nbjekyll"

// Dir returns the nbjekyll configuration directory.
//
// Resolution:
//   - $NBJEKYLL_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/nbjekyll if set (respects XDG on any platform)
//   - %AppData%/nbjekyll on Windows
//   - ~/.config/nbjekyll on macOS and Linux
func Dir() string {
	if dir := os.Getenv("NBJEKYLL_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// Path joins elem onto the configuration directory.
// Returns "" when no configuration directory can be determined.
func Path(elem ...string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(append([]string{dir}, elem...)...)
}
