package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/propsum/propsum/corpus"
	"github.com/propsum/propsum/errors"
	"github.com/propsum/propsum/publish"
)

// RunCycle executes one full sync cycle: acquire every configured corpus,
// regenerate the artifact set, and commit and push it if anything changed.
//
// A cycle already running against the same target branch causes an
// immediate ErrCycleInProgress; overlapping cycles are never queued.
func (r *Runner) RunCycle(ctx context.Context) (*Outcome, error) {
	branch := r.cfg.Publish.Branch
	if !r.locks.tryAcquire(branch) {
		return nil, errors.Wrapf(errors.ErrCycleInProgress, "branch %s", branch)
	}
	defer r.locks.release(branch)

	outcome := &Outcome{
		Status:    StatusFailed,
		CycleID:   uuid.New().String(),
		StartTime: time.Now(),
	}
	defer func() { outcome.EndTime = time.Now() }()

	r.logger.Infow("Starting sync cycle",
		"cycle_id", outcome.CycleID,
		"corpora", len(r.cfg.Corpora),
		"branch", branch)

	snapshots, err := r.acquireAll(ctx)
	defer func() {
		for _, snap := range snapshots {
			snap.Cleanup()
		}
	}()
	if err != nil {
		return outcome, err
	}

	for _, snap := range snapshots {
		outcome.PerCorpus = append(outcome.PerCorpus, CorpusResult{
			Name: snap.Source.Name,
			Kind: snap.Source.Kind,
			Head: snap.Head,
		})
	}

	outputDir := r.outputDir()
	for _, snap := range snapshots {
		if err := r.summarizer.Run(ctx, snap.Source.Kind, snap.InputDir, outputDir); err != nil {
			return outcome, errors.Wrapf(err, "summarizing corpus %s", snap.Source.Name)
		}
	}

	if r.dryRun {
		r.logger.Infow("Dry run, skipping publish", "cycle_id", outcome.CycleID)
		outcome.Status = StatusNoChange
		return outcome, nil
	}

	hash, committed, err := r.publishArtifacts(ctx)
	if err != nil {
		return outcome, err
	}
	if !committed {
		r.logger.Infow("No artifact changes, nothing to publish",
			"cycle_id", outcome.CycleID)
		outcome.Status = StatusNoChange
		return outcome, nil
	}

	outcome.Status = StatusCommitted
	outcome.CommitHash = hash
	r.logger.Infow("Sync cycle published changes",
		"cycle_id", outcome.CycleID,
		"commit", hash)
	return outcome, nil
}

// acquireAll fetches every configured corpus concurrently. Any failure
// cancels the remaining acquisitions and fails the cycle. Snapshots
// acquired before the failure are still returned so the caller can clean
// them up.
func (r *Runner) acquireAll(ctx context.Context) ([]*corpus.Snapshot, error) {
	sources := r.sources()
	snapshots := make([]*corpus.Snapshot, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			acquirer := r.acquirers(src, r.logger)
			snap, err := acquirer.Acquire(gctx, src)
			if err != nil {
				return errors.Wrapf(err, "acquiring corpus %s", src.Name)
			}
			snapshots[i] = snap

			r.logger.Infow("Acquired corpus",
				"name", src.Name,
				"kind", src.Kind,
				"head", snap.Head)
			return nil
		})
	}

	err := g.Wait()

	acquired := make([]*corpus.Snapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		if snap != nil {
			acquired = append(acquired, snap)
		}
	}
	return acquired, err
}

// publishArtifacts stages the output directory and, if the staged state
// differs from HEAD, commits and pushes it. Returns the commit hash and
// whether a commit was made.
func (r *Runner) publishArtifacts(ctx context.Context) (string, bool, error) {
	dir := r.cfg.Publish.OutputDir

	if err := r.publisher.Stage(ctx, dir); err != nil {
		return "", false, err
	}

	changed, err := r.publisher.HasChanges(ctx, dir)
	if err != nil {
		return "", false, err
	}
	if !changed {
		return "", false, nil
	}

	hash, err := r.publisher.Commit(ctx, r.cfg.Publish.CommitMessage, publish.Identity{
		Name:  r.cfg.Publish.AuthorName,
		Email: r.cfg.Publish.AuthorEmail,
	})
	if err != nil {
		return "", false, err
	}

	if err := r.publisher.Push(ctx); err != nil {
		return "", false, err
	}

	return hash, true, nil
}
