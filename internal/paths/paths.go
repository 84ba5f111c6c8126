// Package paths resolves where shelf keeps its configuration and its data.
//
// Both directories follow the same precedence: an explicit flag, then an
// environment variable, then a .shelf directory in the working directory,
// then the platform default. The data directory may also be named by the
// data_dir config key, which sits between the environment and the local
// directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user platform directories.
const AppName = "shelf"

// LocalDirName is a working-directory folder that, when present, holds both
// the configuration and the data of a project-local catalog.
const LocalDirName = ".shelf"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SHELF_CONFIG_DIR"
	EnvDataDir   = "SHELF_DATA_DIR"
)

// File names inside the resolved directories.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "shelf.log"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/shelf (fallback ~/.config/shelf)
// macOS:   ~/Library/Application Support/shelf
// Windows: %APPDATA%/shelf
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/shelf (fallback ~/.local/share/shelf)
// macOS and Windows: the configuration directory.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return DefaultConfigDir()
}

func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

// LocalDir returns the .shelf directory in the working directory and
// whether it exists.
func LocalDir() (string, bool) {
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", false
	}
	dir := filepath.Join(cwd, LocalDirName)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return dir, false
	}
	return dir, true
}

// ResolveConfigDir returns the configuration directory:
// flag > SHELF_CONFIG_DIR > ./.shelf (if present) > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	if dir, ok := LocalDir(); ok {
		return dir, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > SHELF_DATA_DIR > configValue > ./.shelf (if present) > DefaultDataDir().
// A relative configValue is taken relative to configDir.
func ResolveDataDir(flag, configValue, configDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if configValue != "" {
		if !filepath.IsAbs(configValue) && configDir != "" {
			configValue = filepath.Join(configDir, configValue)
		}
		return filepath.Abs(configValue)
	}
	if dir, ok := LocalDir(); ok {
		return dir, nil
	}
	return DefaultDataDir()
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
