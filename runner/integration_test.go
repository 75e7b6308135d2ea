package runner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/internal/gittest"
	"github.com/propsum/propsum/publish"
	"github.com/propsum/propsum/summarize"
)

// requireGitTransport skips tests that need go-git's file transport,
// which shells out to the git pack helpers.
func requireGitTransport(t *testing.T) {
	t.Helper()
	for _, helper := range []string{"git-upload-pack", "git-receive-pack"} {
		if _, err := exec.LookPath(helper); err != nil {
			t.Skipf("%s not available", helper)
		}
	}
}

const fixtureProposal = `---
eip: 1
title: First Proposal
type: Standards Track
status: Final
created: 2020-01-01
---

## Abstract

The first proposal.

## Specification

Does the first thing.
`

// fullCycleFixture wires a real corpus repo, target repo, bare remote,
// builtin summarizer, and git publisher.
func fullCycleFixture(t *testing.T) (*Runner, string, string) {
	t.Helper()

	corpusDir := gittest.CreateRepo(t)
	gittest.CommitFiles(t, corpusDir, map[string]string{
		"EIPS/eip-1.md": fixtureProposal,
	}, "add eip-1")

	targetDir := gittest.CreateRepo(t)
	gittest.CommitFiles(t, targetDir, map[string]string{
		"README.md": "# summaries",
	}, "initial")

	remoteDir := t.TempDir()
	_, err := git.PlainInitWithOptions(remoteDir, &git.PlainInitOptions{
		Bare: true,
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.Main,
		},
	})
	require.NoError(t, err)

	targetRepo, err := git.PlainOpen(targetDir)
	require.NoError(t, err)
	_, err = targetRepo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteDir},
	})
	require.NoError(t, err)

	cfg := &config.Config{
		Corpora: []config.CorpusConfig{
			{Name: "EIPs", Kind: "eip", Source: corpusDir, InputSubdir: "EIPS"},
		},
		Publish: config.PublishConfig{
			RepoPath:      targetDir,
			Branch:        "main",
			Remote:        "origin",
			OutputDir:     "summaries",
			CommitMessage: "Auto-update proposal summaries",
			AuthorName:    "propsum-bot",
			AuthorEmail:   "propsum-bot@users.noreply.github.com",
		},
	}

	log := zap.NewNop().Sugar()
	publisher, err := publish.NewGitPublisher(cfg.Publish, log)
	require.NoError(t, err)

	r := New(cfg, summarize.NewBuiltin(nil, log), publisher, log)
	return r, corpusDir, targetDir
}

func TestFullCyclePublishesAndConverges(t *testing.T) {
	requireGitTransport(t)

	r, corpusDir, targetDir := fullCycleFixture(t)
	ctx := context.Background()

	// First cycle: artifacts are new, so they get committed and pushed
	first, err := r.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, first.Status)
	assert.Equal(t, first.CommitHash, gittest.Head(t, targetDir))

	aggregate := filepath.Join(targetDir, "summaries", "eip_summaries_long.txt")
	raw, err := os.ReadFile(aggregate)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "=== EIP-1 ===")
	assert.Contains(t, string(raw), "TITLE: First Proposal")

	// Second cycle over an unchanged corpus: byte-identical artifacts,
	// clean staged diff, no commit
	second, err := r.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusNoChange, second.Status)
	assert.Equal(t, first.CommitHash, gittest.Head(t, targetDir))

	// Change one proposal upstream: exactly one new commit
	gittest.CommitFiles(t, corpusDir, map[string]string{
		"EIPS/eip-1.md": fixtureProposal + "\n## Rationale\n\nNow with a rationale.\n",
	}, "extend eip-1")

	third, err := r.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, third.Status)
	assert.NotEqual(t, first.CommitHash, third.CommitHash)
	assert.Equal(t, third.CommitHash, gittest.Head(t, targetDir))

	raw, err = os.ReadFile(aggregate)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "RATIONALE:")
}
