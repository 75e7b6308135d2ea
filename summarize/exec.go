package summarize

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/propsum/propsum/errors"
)

// Exec runs an external summarizer command instead of the builtin
// pipeline. The configured command is shell-split, then invoked as
//
//	<argv...> <kind> <inputDir> <outputDir>
//
// A non-zero exit is a summarize failure for the corpus.
type Exec struct {
	command string
	logger  *zap.SugaredLogger
}

// NewExec creates an external-command summarizer.
func NewExec(command string, logger *zap.SugaredLogger) *Exec {
	return &Exec{command: command, logger: logger}
}

// Run implements Summarizer.
func (e *Exec) Run(ctx context.Context, kind, inputDir, outputDir string) error {
	if err := validateKind(kind); err != nil {
		return err
	}

	argv, err := shellquote.Split(e.command)
	if err != nil {
		return errors.Wrapf(errors.ErrSummarizeFailed, "parsing summarize command %q: %v", e.command, err)
	}
	if len(argv) == 0 {
		return errors.Wrap(errors.ErrSummarizeFailed, "summarize command is empty")
	}

	args := append(argv[1:], kind, inputDir, outputDir)
	cmd := exec.CommandContext(ctx, argv[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Infow("Running external summarizer",
		"command", argv[0],
		"kind", kind,
		"input", inputDir,
		"output", outputDir)

	if err := cmd.Run(); err != nil {
		detail := stderr.String()
		if detail != "" {
			return errors.Wrapf(errors.ErrSummarizeFailed, "command %q: %v: %s", argv[0], err, detail)
		}
		return errors.Wrapf(errors.ErrSummarizeFailed, "command %q: %v", argv[0], err)
	}

	return nil
}
