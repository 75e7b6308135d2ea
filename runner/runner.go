// Package runner drives one synchronization cycle: acquire the proposal
// corpora, regenerate summary artifacts, and publish them when they
// changed.
package runner

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/corpus"
	"github.com/propsum/propsum/publish"
	"github.com/propsum/propsum/summarize"
)

// OutcomeStatus classifies how a cycle ended.
type OutcomeStatus string

const (
	// StatusNoChange means the cycle ran to completion and the regenerated
	// artifacts were byte-identical to the committed ones.
	StatusNoChange OutcomeStatus = "no_change"

	// StatusCommitted means changed artifacts were committed and pushed.
	StatusCommitted OutcomeStatus = "committed"

	// StatusFailed means the cycle aborted. Nothing was committed.
	StatusFailed OutcomeStatus = "failed"
)

// CorpusResult records the snapshot one corpus was summarized from.
type CorpusResult struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Head string `json:"head"`
}

// Outcome is the result of one sync cycle.
type Outcome struct {
	Status     OutcomeStatus  `json:"status"`
	CommitHash string         `json:"commit_hash,omitempty"`
	CycleID    string         `json:"cycle_id"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    time.Time      `json:"end_time"`
	PerCorpus  []CorpusResult `json:"per_corpus,omitempty"`
}

// Duration returns the wall-clock time the cycle took.
func (o *Outcome) Duration() time.Duration {
	return o.EndTime.Sub(o.StartTime)
}

// AcquirerFactory produces the acquirer used for a corpus source. Tests
// substitute fakes here.
type AcquirerFactory func(src corpus.Source, logger *zap.SugaredLogger) corpus.Acquirer

// Runner executes sync cycles. Cycles targeting the same branch are
// mutually exclusive.
type Runner struct {
	cfg        *config.Config
	summarizer summarize.Summarizer
	publisher  publish.Publisher
	acquirers  AcquirerFactory
	logger     *zap.SugaredLogger
	dryRun     bool
	locks      *branchLocks
}

// Option configures a Runner.
type Option func(*Runner)

// WithAcquirerFactory overrides how corpus acquirers are constructed.
func WithAcquirerFactory(f AcquirerFactory) Option {
	return func(r *Runner) { r.acquirers = f }
}

// WithDryRun regenerates artifacts but skips staging, commit and push.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// New creates a Runner.
func New(cfg *config.Config, summarizer summarize.Summarizer, publisher publish.Publisher, logger *zap.SugaredLogger, opts ...Option) *Runner {
	r := &Runner{
		cfg:        cfg,
		summarizer: summarizer,
		publisher:  publisher,
		acquirers:  corpus.NewAcquirer,
		logger:     logger,
		locks:      defaultLocks,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// outputDir resolves the artifact directory relative to the publish
// repository.
func (r *Runner) outputDir() string {
	out := r.cfg.Publish.OutputDir
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(r.cfg.Publish.RepoPath, out)
}

// sources converts the configured corpora into acquisition sources.
func (r *Runner) sources() []corpus.Source {
	out := make([]corpus.Source, 0, len(r.cfg.Corpora))
	for _, c := range r.cfg.Corpora {
		out = append(out, corpus.Source{
			Name:        c.Name,
			Kind:        c.Kind,
			URL:         c.Source,
			InputSubdir: c.InputSubdir,
		})
	}
	return out
}

// branchLocks is the mutual-exclusion registry for cycles keyed by
// target branch. Acquisition is fail-fast, never blocking.
type branchLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

var defaultLocks = &branchLocks{held: make(map[string]bool)}

func (l *branchLocks) tryAcquire(branch string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[branch] {
		return false
	}
	l.held[branch] = true
	return true
}

func (l *branchLocks) isHeld(branch string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[branch]
}

func (l *branchLocks) release(branch string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, branch)
}
