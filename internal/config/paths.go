package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/treykane/remotec/internal/util"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "REMOTEC_CONFIG"

// candidateNames are tried in order when looking for an existing config file.
var candidateNames = []string{util.ConfigFileName, "config.yml", "config.json", "config.toml"}

// ConfigDir returns the application config directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/remotec.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, util.AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", util.AppName), nil
}

// DefaultPath returns the config file to load: $REMOTEC_CONFIG if set, the
// first existing candidate in ConfigDir, or ConfigDir/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return util.ExpandHome(p), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range candidateNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, util.ConfigFileName), nil
}

// CacheDir returns the per-user cache directory, creating it if needed.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	dir := filepath.Join(base, util.AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return dir, nil
}
