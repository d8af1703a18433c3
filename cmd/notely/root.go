package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aretw0/notely"
	"github.com/aretw0/notely/internal/config"
	"github.com/aretw0/notely/internal/platform"
)

var (
	verbose    bool
	configPath string
	serverURL  string
	stateDir   string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notely",
	Short: "A command-line client for a notes service",
	Long: `notely keeps a local, observable mirror of your notes and tags.
Changes are applied locally only after the server confirmed them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		c, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}
		if serverURL != "" {
			c.Server = serverURL
		}
		if stateDir != "" {
			c.StateDir = stateDir
		}
		cfg = c

		slog.SetDefault(slog.New(slog.NewTextHandler(logOutput(c.Log), &slog.HandlerOptions{
			Level: logLevel(c.Log.Level),
		})))
		if c.File != "" {
			slog.Debug("config loaded", "file", c.File)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest .notely.yaml, then the user config dir)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API root of the notes service")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory holding the session token")
}

// loadConfig resolves the config file: --config, then the nearest
// .notely.yaml above the working directory, then the user config file.
// Without any file the defaults apply.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	if wd, err := os.Getwd(); err == nil {
		path, err := notely.FindConfig(wd)
		if err == nil {
			return config.Load(path)
		}
		if !errors.Is(err, platform.ErrConfigNotFound) {
			return nil, err
		}
	}

	if path, err := platform.DefaultConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return config.Load(path)
		}
	}
	return config.Default()
}

func logLevel(name string) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelWarn
	}
	return level
}

func logOutput(c config.LogConfig) io.Writer {
	if c.File == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   c.Compress,
	}
}
