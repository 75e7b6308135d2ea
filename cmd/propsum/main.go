package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/propsum/propsum/cmd/propsum/commands"
	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/logger"
)

var rootCmd = &cobra.Command{
	Use:   "propsum",
	Short: "propsum - scheduled proposal summary sync",
	Long: `propsum keeps a repository of proposal summaries in sync with the
upstream EIP and ERC corpora.

Each sync cycle clones the corpora, regenerates the summary artifacts,
and commits and pushes them when anything changed.

Available commands:
  run     - Run one sync cycle and exit
  daemon  - Run the scheduler (timer + path watcher)
  config  - Show or initialize configuration
  version - Show version information

Examples:
  propsum run --dry-run    # Regenerate artifacts without publishing
  propsum daemon           # Start the scheduled sync loop
  propsum config show      # Show effective configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs := false
		if cfg, err := config.Load(); err == nil {
			jsonLogs = cfg.Logging.JSON
		}
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.DaemonCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
