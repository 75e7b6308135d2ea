package publish

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
	"github.com/propsum/propsum/internal/gittest"
)

func newTestPublisher(t *testing.T) (*GitPublisher, string) {
	t.Helper()

	dir := gittest.CreateRepo(t)
	gittest.CommitFiles(t, dir, map[string]string{
		"README.md":                     "# target repo",
		"summaries/eip_summaries_short.txt": "=== EIP-1 ===\n",
	}, "initial")

	p, err := NewGitPublisher(config.PublishConfig{
		RepoPath: dir,
		Branch:   "main",
		Remote:   "origin",
	}, zap.NewNop().Sugar())
	require.NoError(t, err)

	return p, dir
}

func TestNewGitPublisherMissingRepo(t *testing.T) {
	_, err := NewGitPublisher(config.PublishConfig{
		RepoPath: filepath.Join(t.TempDir(), "nope"),
	}, zap.NewNop().Sugar())

	require.Error(t, err)
	assert.True(t, errors.IsPublishError(err))
}

func TestHasChangesClean(t *testing.T) {
	p, _ := newTestPublisher(t)

	changed, err := p.HasChanges(context.Background(), "summaries")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStageAndHasChanges(t *testing.T) {
	p, dir := newTestPublisher(t)
	ctx := context.Background()

	gittest.WriteFiles(t, dir, map[string]string{
		"summaries/eip_summaries_short.txt": "=== EIP-1 ===\nupdated\n",
	})

	require.NoError(t, p.Stage(ctx, "summaries"))

	changed, err := p.HasChanges(ctx, "summaries")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestHasChangesIgnoresOutsideDir(t *testing.T) {
	p, dir := newTestPublisher(t)
	ctx := context.Background()

	gittest.WriteFiles(t, dir, map[string]string{
		"README.md": "# modified outside the artifact dir",
	})
	require.NoError(t, p.Stage(ctx, "summaries"))

	changed, err := p.HasChanges(ctx, "summaries")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStageAbsoluteDir(t *testing.T) {
	p, dir := newTestPublisher(t)
	ctx := context.Background()

	gittest.WriteFiles(t, dir, map[string]string{
		"summaries/new.txt": "fresh artifact\n",
	})

	require.NoError(t, p.Stage(ctx, filepath.Join(dir, "summaries")))

	changed, err := p.HasChanges(ctx, filepath.Join(dir, "summaries"))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestStageOutsideRepository(t *testing.T) {
	p, _ := newTestPublisher(t)

	err := p.Stage(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsPublishError(err))
}

func TestCommit(t *testing.T) {
	p, dir := newTestPublisher(t)
	ctx := context.Background()

	gittest.WriteFiles(t, dir, map[string]string{
		"summaries/eip_summaries_short.txt": "=== EIP-1 ===\nupdated\n",
	})
	require.NoError(t, p.Stage(ctx, "summaries"))

	hash, err := p.Commit(ctx, "Auto-update proposal summaries", Identity{
		Name:  "propsum-bot",
		Email: "bot@propsum.local",
	})
	require.NoError(t, err)
	assert.Len(t, hash, 40)
	assert.Equal(t, hash, gittest.Head(t, dir))
}

func TestPushWithoutRemote(t *testing.T) {
	p, dir := newTestPublisher(t)
	ctx := context.Background()

	gittest.CommitFiles(t, dir, map[string]string{
		"summaries/eip_summaries_short.txt": "changed\n",
	}, "update")

	err := p.Push(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsPublishError(err))
}

func TestOperationsHonorCancellation(t *testing.T) {
	p, _ := newTestPublisher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, p.Stage(ctx, "summaries"))
	_, err := p.HasChanges(ctx, "summaries")
	require.Error(t, err)
	_, err = p.Commit(ctx, "msg", Identity{Name: "a", Email: "a@b"})
	require.Error(t, err)
}
