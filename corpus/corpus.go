// Package corpus acquires the external proposal corpora.
//
// Every cycle clones each corpus fresh into a temporary directory and
// discards it when the cycle ends. There is no incremental update: a
// Snapshot is always a complete copy of the upstream source tree.
package corpus

import (
	"context"
	"os"
	"path/filepath"

	"github.com/propsum/propsum/errors"
)

// Source identifies one upstream corpus to acquire.
type Source struct {
	Name        string // human label, also used for temp dir naming
	Kind        string // proposal type tag: "eip" or "erc"
	URL         string // git URL, archive URL, or local path
	InputSubdir string // directory inside the corpus holding proposal files
}

// Snapshot is a freshly acquired copy of a corpus. It lives in a
// temporary directory that Cleanup removes.
type Snapshot struct {
	Source Source

	// Dir is the root of the acquired source tree.
	Dir string

	// InputDir is the proposal-file directory inside Dir.
	InputDir string

	// Head is the commit hash the snapshot was taken at. Empty for
	// sources without git history (archives).
	Head string

	cleanup func()
}

// NewSnapshot builds a Snapshot with an explicit cleanup hook. Acquirer
// implementations outside this package use it to attach their own
// teardown.
func NewSnapshot(src Source, dir, inputDir, head string, cleanup func()) *Snapshot {
	return &Snapshot{
		Source:   src,
		Dir:      dir,
		InputDir: inputDir,
		Head:     head,
		cleanup:  cleanup,
	}
}

// Cleanup removes the snapshot's temporary directory.
// Safe to call multiple times.
func (s *Snapshot) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Acquirer produces a Snapshot of a corpus source.
type Acquirer interface {
	Acquire(ctx context.Context, src Source) (*Snapshot, error)
}

// resolveInputDir locates the proposal-file directory inside an acquired
// tree and fails acquisition if the corpus does not contain it.
func resolveInputDir(dir string, src Source) (string, error) {
	inputDir := dir
	if src.InputSubdir != "" {
		inputDir = filepath.Join(dir, src.InputSubdir)
	}

	info, err := os.Stat(inputDir)
	if err != nil {
		return "", errors.Wrapf(errors.ErrAcquireFailed,
			"corpus %s has no input directory %q: %v", src.Name, src.InputSubdir, err)
	}
	if !info.IsDir() {
		return "", errors.Wrapf(errors.ErrAcquireFailed,
			"corpus %s input path %q is not a directory", src.Name, src.InputSubdir)
	}

	return inputDir, nil
}
