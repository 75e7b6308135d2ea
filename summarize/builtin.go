package summarize

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
)

// Builtin is the in-process summarizer. It walks the corpus input
// directory, extracts frontmatter and key sections from each proposal,
// and writes the artifact set: one file per proposal plus one aggregate
// file per token tier.
//
// Proposal files are processed in sorted path order so the artifacts are
// byte-identical across runs on the same snapshot.
type Builtin struct {
	tiers  map[string]int
	logger *zap.SugaredLogger
}

// NewBuiltin creates the builtin summarizer. Empty tiers means
// DefaultTiers.
func NewBuiltin(tiers map[string]int, logger *zap.SugaredLogger) *Builtin {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	return &Builtin{tiers: tiers, logger: logger}
}

// Run implements Summarizer.
func (b *Builtin) Run(ctx context.Context, kind, inputDir, outputDir string) error {
	if err := validateKind(kind); err != nil {
		return err
	}

	files, err := collectProposalFiles(inputDir, kind)
	if err != nil {
		return errors.Wrapf(errors.ErrSummarizeFailed, "scanning %s: %v", inputDir, err)
	}

	if err := os.MkdirAll(outputDir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(errors.ErrSummarizeFailed, "creating output directory: %v", err)
	}

	// The per-proposal artifact directory for this kind is regenerated
	// from scratch: stale artifacts for proposals no longer upstream must
	// not survive. Other kinds' directories are untouched.
	kindDir := filepath.Join(outputDir, kind)
	if err := os.RemoveAll(kindDir); err != nil {
		return errors.Wrapf(errors.ErrSummarizeFailed, "clearing %s artifacts: %v", kind, err)
	}
	if err := os.MkdirAll(kindDir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(errors.ErrSummarizeFailed, "creating %s artifact directory: %v", kind, err)
	}

	type proposal struct {
		path    string
		content string
	}

	proposals := make([]proposal, 0, len(files))
	skipped := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "summarize cancelled")
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			// Unreadable proposals surface as ERROR blocks in the
			// aggregates rather than failing the whole corpus.
			b.logger.Warnw("Failed to read proposal file",
				"kind", kind,
				"path", path,
				"error", err)
			proposals = append(proposals, proposal{path: path})
			continue
		}

		content := string(raw)
		if proposalStatus(content) == "moved" {
			skipped++
			continue
		}

		proposals = append(proposals, proposal{path: path, content: content})
	}

	// Aggregate files: one per tier, blocks joined by blank lines
	tierNames := make([]string, 0, len(b.tiers))
	for name := range b.tiers {
		tierNames = append(tierNames, name)
	}
	sort.Strings(tierNames)

	for _, tierName := range tierNames {
		budget := b.tiers[tierName]

		blocks := make([]string, 0, len(proposals))
		for _, p := range proposals {
			if p.content == "" {
				blocks = append(blocks, fmt.Sprintf("ERROR processing %s\n", filepath.Base(p.path)))
				continue
			}
			blocks = append(blocks, renderBlock(kind, p.content, budget))
		}

		aggregatePath := filepath.Join(outputDir, fmt.Sprintf("%s_summaries_%s.txt", kind, tierName))
		if err := os.WriteFile(aggregatePath, []byte(strings.Join(blocks, "\n\n")), config.DefaultFilePermissions); err != nil {
			return errors.Wrapf(errors.ErrSummarizeFailed, "writing %s: %v", aggregatePath, err)
		}
	}

	// Per-proposal artifacts at the long tier
	longBudget, ok := b.tiers[longTier]
	if !ok {
		// Custom tier sets without "long": use the largest budget
		for _, budget := range b.tiers {
			if budget > longBudget {
				longBudget = budget
			}
		}
	}

	written := 0
	for _, p := range proposals {
		if p.content == "" {
			continue
		}

		name := strings.TrimSuffix(filepath.Base(p.path), filepath.Ext(p.path))
		artifactPath := filepath.Join(kindDir, name+".txt")
		if err := os.WriteFile(artifactPath, []byte(renderBlock(kind, p.content, longBudget)), config.DefaultFilePermissions); err != nil {
			return errors.Wrapf(errors.ErrSummarizeFailed, "writing %s: %v", artifactPath, err)
		}
		written++
	}

	b.logger.Infow("Summarized corpus",
		"kind", kind,
		"proposals", written,
		"skipped_moved", skipped,
		"tiers", len(b.tiers))

	return nil
}

// collectProposalFiles walks inputDir for markdown proposal files of the
// given kind, returned in sorted path order.
func collectProposalFiles(inputDir, kind string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".md") {
			return nil
		}
		// ERC corpora carry files under both naming schemes
		if !strings.Contains(name, kind+"-") && !strings.Contains(name, "eip-") {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
