package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
)

// ConfigCmd groups configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(); err != nil {
			return errors.Wrap(err, "loading configuration")
		}

		settings := config.GetViper().AllSettings()
		// The token never leaves the environment
		if pub, ok := settings["publish"].(map[string]interface{}); ok {
			delete(pub, "token")
		}

		out, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "rendering configuration")
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			path = config.UserConfigPath()
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}

		pterm.Success.Printf("Wrote default configuration to %s", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("path", "", "Destination file (default: user config path)")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}
