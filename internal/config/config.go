// Package config loads the CLI configuration file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the notely CLI configuration.
type Config struct {
	File string `yaml:"-"` // Path the config was read from; empty for defaults.

	// Server is the API root, e.g. https://notes.example.com/api.
	Server    string    `yaml:"server" default:"http://localhost:3000/api"`
	StateDir  string    `yaml:"state-dir"`
	Timeout   string    `yaml:"timeout" default:"30s"`
	UserAgent string    `yaml:"user-agent" default:"notely-cli"`
	Log       LogConfig `yaml:"log"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" default:"warn"`
	// File enables a rotating log file instead of stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb" default:"10"`
	MaxBackups int    `yaml:"max-backups" default:"3"`
	MaxAgeDays int    `yaml:"max-age-days" default:"28"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a configuration holding only defaults.
func Default() (*Config, error) {
	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	return c, nil
}

// Load reads the YAML file at f over the defaults.
func Load(f string) (*Config, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, errors.Wrap(err, "resolve config path failed")
	}
	realpath = filepath.Clean(realpath)

	c, err := Default()
	if err != nil {
		return nil, err
	}
	c.File = realpath

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// Fields present in the file but left empty fall back to defaults.
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}

	if _, err := c.RequestTimeout(); err != nil {
		return nil, err
	}
	return c, nil
}

// RequestTimeout parses Timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout %q", c.Timeout)
	}
	if d <= 0 {
		return 0, errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return d, nil
}

// Keys lists the settings Set accepts.
var Keys = []string{"server", "state-dir", "timeout", "user-agent", "log.level", "log.file"}

// Set assigns one setting by its file key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "server":
		c.Server = value
	case "state-dir":
		c.StateDir = value
	case "timeout":
		prev := c.Timeout
		c.Timeout = value
		if _, err := c.RequestTimeout(); err != nil {
			c.Timeout = prev
			return err
		}
	case "user-agent":
		c.UserAgent = value
	case "log.level":
		c.Log.Level = value
	case "log.file":
		c.Log.File = value
	default:
		return errors.Errorf("unknown config key %q", key)
	}
	return nil
}

// Save writes the configuration back to File.
func (c *Config) Save() error {
	if c.File == "" {
		return errors.New("config has no file")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		return errors.Wrap(err, "create config dir failed")
	}
	if err := os.WriteFile(c.File, data, 0o644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}
