package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Corpora, 2)
	assert.Equal(t, "eip", cfg.Corpora[0].Kind)
	assert.Equal(t, "https://github.com/ethereum/EIPs", cfg.Corpora[0].Source)
	assert.Equal(t, "EIPS", cfg.Corpora[0].InputSubdir)
	assert.Equal(t, "erc", cfg.Corpora[1].Kind)

	assert.Equal(t, "Auto-update proposal summaries", cfg.Publish.CommitMessage)
	assert.Equal(t, "summaries", cfg.Publish.OutputDir)
	assert.Equal(t, "main", cfg.Publish.Branch)
	assert.Equal(t, "origin", cfg.Publish.Remote)

	assert.Equal(t, 6*time.Hour, cfg.Schedule.Interval())
	assert.Equal(t, time.Second, cfg.Schedule.TickerInterval())

	assert.Equal(t, 128, cfg.Summarize.Tiers["short"])
	assert.Equal(t, 256, cfg.Summarize.Tiers["medium"])
	assert.Equal(t, 512, cfg.Summarize.Tiers["long"])
	assert.Empty(t, cfg.Summarize.Command)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "propsum.toml")
	content := `
[[corpora]]
name = "EIPs"
kind = "eip"
source = "/srv/mirrors/EIPs"
input_subdir = "EIPS"

[publish]
repo_path = "/srv/summaries-repo"
branch = "summaries"
commit_message = "Refresh summaries"

[schedule]
interval_seconds = 3600
watch_paths = ["scripts/summarize.py"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Len(t, cfg.Corpora, 1)
	assert.Equal(t, "/srv/mirrors/EIPs", cfg.Corpora[0].Source)
	assert.Equal(t, "/srv/summaries-repo", cfg.Publish.RepoPath)
	assert.Equal(t, "summaries", cfg.Publish.Branch)
	assert.Equal(t, "Refresh summaries", cfg.Publish.CommitMessage)
	assert.Equal(t, time.Hour, cfg.Schedule.Interval())
	assert.Equal(t, []string{"scripts/summarize.py"}, cfg.Schedule.WatchPaths)

	// Values absent from the file keep their defaults
	assert.Equal(t, "origin", cfg.Publish.Remote)
	assert.Equal(t, 512, cfg.Summarize.Tiers["long"])
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestTokenFromEnvironment(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("PROPSUM_PUBLISH_TOKEN", "tok-from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-from-env", cfg.Publish.Token)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "propsum.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Corpora, 2)
	assert.Equal(t, "Auto-update proposal summaries", cfg.Publish.CommitMessage)
	assert.Empty(t, cfg.Publish.Token)

	// Token never persisted to disk
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "token")

	// Refuses to clobber an existing file
	require.Error(t, WriteDefault(path))
}
