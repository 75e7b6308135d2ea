package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
	"github.com/propsum/propsum/logger"
	"github.com/propsum/propsum/schedule"
)

// DaemonCmd runs the scheduler until interrupted.
var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the scheduled sync loop",
	Long: `Start the sync scheduler: a timer fires a cycle at the configured
interval, and configured watch paths trigger a cycle on change.

The daemon stops gracefully on SIGINT or SIGTERM; a cycle in flight
runs to completion.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

func runDaemon(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	r, err := buildRunner(cfg, false)
	if err != nil {
		return err
	}

	cycle := func(ctx context.Context, trigger schedule.Trigger) error {
		logger.Infow("Cycle triggered", "trigger", trigger.Kind, "paths", trigger.Paths)
		_, err := r.RunCycle(ctx)
		return err
	}

	daemonCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := schedule.NewTicker(daemonCtx, cycle, cfg.Schedule.Interval(), cfg.Schedule.TickerInterval(), logger.Logger)
	ticker.Start()
	defer ticker.Stop()

	if len(cfg.Schedule.WatchPaths) > 0 {
		watcher, err := schedule.NewWatcher(daemonCtx, cycle, cfg.Schedule.WatchPaths, logger.Logger)
		if err != nil {
			return errors.Wrap(err, "starting path watcher")
		}
		watcher.Start()
		defer watcher.Stop()
	}

	logger.Infow("Daemon started",
		"interval", cfg.Schedule.Interval(),
		"watch_paths", cfg.Schedule.WatchPaths,
		"branch", cfg.Publish.Branch)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infow("Shutting down", "signal", sig.String())
	case <-daemonCtx.Done():
	}

	return nil
}
