package commands

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
	"github.com/propsum/propsum/logger"
	"github.com/propsum/propsum/publish"
	"github.com/propsum/propsum/runner"
	"github.com/propsum/propsum/schedule"
	"github.com/propsum/propsum/summarize"
)

// RunCmd executes a single sync cycle.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one sync cycle and exit",
	Long: `Acquire the configured proposal corpora, regenerate the summary
artifacts, and commit and push them if anything changed.

The process exits non-zero when the cycle fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return runCycle(cmd.Context(), dryRun)
	},
}

func init() {
	RunCmd.Flags().Bool("dry-run", false, "Regenerate artifacts without committing or pushing")
}

func runCycle(ctx context.Context, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	r, err := buildRunner(cfg, dryRun)
	if err != nil {
		return err
	}

	logger.Infow("Cycle triggered", "trigger", schedule.TriggerManual)

	pterm.DefaultHeader.WithFullWidth().Printf("propsum - proposal summary sync")
	pterm.Println()

	if dryRun {
		pterm.Warning.Println("DRY RUN MODE: nothing will be committed or pushed")
		pterm.Println()
	}

	for _, c := range cfg.Corpora {
		pterm.Info.Printf("Corpus %s (%s): %s", c.Name, c.Kind, c.Source)
	}
	pterm.Println()

	spinner, _ := pterm.DefaultSpinner.Start("Running sync cycle...")
	outcome, err := r.RunCycle(ctx)
	if spinner != nil {
		spinner.Stop()
	}

	if err != nil {
		pterm.Error.Printf("Sync cycle failed: %v", err)
		return err
	}

	reportOutcome(outcome)
	return nil
}

// buildRunner wires a runner from configuration. The publisher is only
// constructed when it will be used.
func buildRunner(cfg *config.Config, dryRun bool) (*runner.Runner, error) {
	summarizer := summarize.New(cfg.Summarize, logger.Logger)

	var publisher publish.Publisher
	if !dryRun {
		p, err := publish.NewGitPublisher(cfg.Publish, logger.Logger)
		if err != nil {
			return nil, err
		}
		publisher = p
	}

	return runner.New(cfg, summarizer, publisher, logger.Logger, runner.WithDryRun(dryRun)), nil
}

func reportOutcome(outcome *runner.Outcome) {
	pterm.Println()

	switch outcome.Status {
	case runner.StatusCommitted:
		pterm.Success.Printf("Published summary update %s", outcome.CommitHash[:7])
	case runner.StatusNoChange:
		pterm.Success.Printf("Corpora unchanged, nothing to publish")
	default:
		pterm.Error.Printf("Cycle ended with status %s", outcome.Status)
	}
	pterm.Println()

	pterm.Info.Printf("Cycle summary:")
	pterm.Printf("  Cycle ID: %s", outcome.CycleID)
	for _, c := range outcome.PerCorpus {
		head := c.Head
		if len(head) > 7 {
			head = head[:7]
		}
		pterm.Printf("  %s (%s) at %s", c.Name, c.Kind, head)
	}
	pterm.Printf("  Duration: %s", outcome.Duration().Round(time.Millisecond))
	pterm.Println()
}
