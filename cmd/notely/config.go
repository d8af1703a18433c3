package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/internal/config"
	"github.com/aretw0/notely/internal/platform"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.File == "" {
			fmt.Println("(defaults, no config file)")
			return
		}
		fmt.Println(cfg.File)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save it",
	Long:  "Set a config value and save it. Keys: " + strings.Join(config.Keys, ", ") + ".",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		// Reload so --server and --state-dir overrides are not persisted.
		c, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}
		if err := setAndSave(c, args[0], args[1]); err != nil {
			fatal("Failed to update config", err)
		}
		success("%s = %s (%s)", args[0], args[1], c.File)
	},
}

// setAndSave applies one key to c and writes it, falling back to the user
// config file when c came from defaults.
func setAndSave(c *config.Config, key, value string) error {
	if err := c.Set(key, value); err != nil {
		return err
	}
	if c.File == "" {
		path, err := platform.DefaultConfigPath()
		if err != nil {
			return err
		}
		c.File = path
	}
	return c.Save()
}

func init() {
	configCmd.AddCommand(configPathCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
