// Package summarize generates the derived summary artifacts for proposal
// corpora.
//
// The summarizer contract: deterministic given identical input directory
// contents, writing artifacts in a stable, diff-friendly format so that
// unchanged proposals produce byte-identical output. The sync cycle relies
// on this to detect no-op runs.
package summarize

import (
	"context"

	"go.uber.org/zap"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
)

// Proposal type tags. Each corpus is summarized under exactly one tag and
// artifacts are partitioned by it in the output directory.
const (
	KindEIP = "eip"
	KindERC = "erc"
)

// DefaultTiers are the token budgets the summaries are rendered at.
var DefaultTiers = map[string]int{
	"short":  128,
	"medium": 256,
	"long":   512,
}

// longTier names the tier used for the per-proposal artifact files.
const longTier = "long"

// Summarizer regenerates the summary artifact set for one corpus.
type Summarizer interface {
	// Run summarizes every proposal file under inputDir into outputDir.
	// kind is the proposal type tag ("eip" or "erc"). The artifact set for
	// that kind is fully regenerated; artifacts of other kinds are left
	// untouched.
	Run(ctx context.Context, kind, inputDir, outputDir string) error
}

// New selects a summarizer from configuration: the external command when
// one is configured, otherwise the builtin pipeline.
func New(cfg config.SummarizeConfig, logger *zap.SugaredLogger) Summarizer {
	if cfg.Command != "" {
		return NewExec(cfg.Command, logger)
	}
	return NewBuiltin(cfg.Tiers, logger)
}

// ValidKind reports whether kind is a known proposal type tag.
func ValidKind(kind string) bool {
	return kind == KindEIP || kind == KindERC
}

func validateKind(kind string) error {
	if !ValidKind(kind) {
		return errors.Wrapf(errors.ErrSummarizeFailed, "unknown proposal kind %q", kind)
	}
	return nil
}
