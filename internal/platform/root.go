package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFileName is the per-project configuration file FindConfig looks for.
const ConfigFileName = ".notely.yaml"

// ErrConfigNotFound is returned by FindConfig when no directory up to the
// filesystem root holds a ConfigFileName.
var ErrConfigNotFound = errors.New("config not found")

// FindConfig recursively looks upwards from startDir for ConfigFileName and
// returns its absolute path.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasFile(dir, ConfigFileName) {
			return filepath.Join(dir, ConfigFileName), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrConfigNotFound
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/notely/config.yaml (or the
// platform equivalent).
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notely", "config.yaml"), nil
}

// DefaultStateDir returns the per-user state directory for persisted tokens.
func DefaultStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "notely"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "notely"), nil
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
