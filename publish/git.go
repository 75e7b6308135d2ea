package publish

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
)

// GitPublisher publishes artifacts through a local git checkout.
type GitPublisher struct {
	repo     *git.Repository
	worktree *git.Worktree
	repoPath string
	branch   string
	remote   string
	token    string
	logger   *zap.SugaredLogger
}

// NewGitPublisher opens the repository the artifacts are committed to.
func NewGitPublisher(cfg config.PublishConfig, logger *zap.SugaredLogger) (*GitPublisher, error) {
	repo, err := git.PlainOpen(cfg.RepoPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPublishRejected, "opening repository %s: %v", cfg.RepoPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPublishRejected, "resolving worktree: %v", err)
	}

	return &GitPublisher{
		repo:     repo,
		worktree: worktree,
		repoPath: cfg.RepoPath,
		branch:   cfg.Branch,
		remote:   cfg.Remote,
		token:    cfg.Token,
		logger:   logger,
	}, nil
}

// relDir resolves dir relative to the repository root. Paths already
// inside the repository pass through unchanged.
func (p *GitPublisher) relDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		return filepath.ToSlash(dir), nil
	}

	root, err := filepath.Abs(p.repoPath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", dir, root)
	}
	return filepath.ToSlash(rel), nil
}

// Stage implements Publisher.
func (p *GitPublisher) Stage(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "stage cancelled")
	}

	rel, err := p.relDir(dir)
	if err != nil {
		return errors.Wrapf(errors.ErrPublishRejected, "staging: %v", err)
	}

	if err := p.worktree.AddWithOptions(&git.AddOptions{Path: rel}); err != nil {
		return errors.Wrapf(errors.ErrPublishRejected, "staging %s: %v", rel, err)
	}

	p.logger.Debugw("Staged artifact directory", "dir", rel)
	return nil
}

// HasChanges implements Publisher.
func (p *GitPublisher) HasChanges(ctx context.Context, dir string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.Wrap(err, "status cancelled")
	}

	rel, err := p.relDir(dir)
	if err != nil {
		return false, errors.Wrapf(errors.ErrPublishRejected, "status: %v", err)
	}

	status, err := p.worktree.Status()
	if err != nil {
		return false, errors.Wrapf(errors.ErrPublishRejected, "reading status: %v", err)
	}

	prefix := rel + "/"
	for path, fileStatus := range status {
		if path != rel && !strings.HasPrefix(path, prefix) {
			continue
		}
		if fileStatus.Staging != git.Unmodified && fileStatus.Staging != git.Untracked {
			return true, nil
		}
	}
	return false, nil
}

// Commit implements Publisher.
func (p *GitPublisher) Commit(ctx context.Context, message string, ident Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "commit cancelled")
	}

	sig := &object.Signature{
		Name:  ident.Name,
		Email: ident.Email,
		When:  time.Now(),
	}

	hash, err := p.worktree.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		return "", errors.Wrapf(errors.ErrPublishRejected, "committing: %v", err)
	}

	p.logger.Infow("Committed summary artifacts",
		"hash", hash.String(),
		"branch", p.branch)
	return hash.String(), nil
}

// Push implements Publisher.
func (p *GitPublisher) Push(ctx context.Context) error {
	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", p.branch, p.branch))
	opts := &git.PushOptions{
		RemoteName: p.remote,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
	}
	if p.token != "" {
		// GitHub accepts the token as the basic-auth password with any
		// non-empty username.
		opts.Auth = &http.BasicAuth{Username: "x-access-token", Password: p.token}
	}

	err := p.repo.PushContext(ctx, opts)
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		p.logger.Infow("Pushed summary artifacts",
			"remote", p.remote,
			"branch", p.branch)
		return nil
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return errors.Wrapf(errors.ErrPublishRejected, "push to %s/%s rejected: %v", p.remote, p.branch, err)
	default:
		return errors.Wrapf(errors.ErrPublishRejected, "pushing to %s/%s: %v", p.remote, p.branch, err)
	}
}
