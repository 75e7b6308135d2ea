package corpus

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/propsum/propsum/errors"
)

// GitAcquirer acquires corpora by full git clone. The clone is not
// shallow: the summarizer only reads the worktree, but a full clone keeps
// the acquisition contract identical for every git source.
type GitAcquirer struct {
	logger *zap.SugaredLogger
}

// NewGitAcquirer creates a git-based corpus acquirer.
func NewGitAcquirer(logger *zap.SugaredLogger) *GitAcquirer {
	return &GitAcquirer{logger: logger}
}

// Acquire clones the source into a fresh temporary directory and resolves
// the proposal input directory inside it. A failed clone is fatal to the
// cycle; there is no retry here.
func (a *GitAcquirer) Acquire(ctx context.Context, src Source) (*Snapshot, error) {
	tempDir, err := os.MkdirTemp("", fmt.Sprintf("propsum-%s-*", sanitizeName(src.Name)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}

	a.logger.Infow("Cloning corpus",
		"corpus", src.Name,
		"source", src.URL,
		"destination", tempDir)

	repo, err := git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL: src.URL,
	})
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrapf(errors.ErrAcquireFailed,
			"cloning %s from %s: %v", src.Name, src.URL, err)
	}

	head := ""
	if ref, err := repo.Head(); err == nil {
		head = ref.Hash().String()
	}

	inputDir, err := resolveInputDir(tempDir, src)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	a.logger.Infow("Corpus acquired",
		"corpus", src.Name,
		"head", head,
		"input_dir", inputDir)

	return &Snapshot{
		Source:   src,
		Dir:      tempDir,
		InputDir: inputDir,
		Head:     head,
		cleanup: func() {
			os.RemoveAll(tempDir)
		},
	}, nil
}

// IsGitRepository checks if a path is a git repository
func IsGitRepository(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}
