package corpus

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propsum/propsum/errors"
	"github.com/propsum/propsum/internal/gittest"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestGetterAcquirerLocalDirectory(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.MkdirAll(srcDir+"/EIPS", 0755))
	require.NoError(t, os.WriteFile(srcDir+"/EIPS/eip-1.md", []byte("proposal"), 0644))

	acquirer := NewGetterAcquirer(testLogger())
	snap, err := acquirer.Acquire(context.Background(), Source{
		Name:        "EIPs",
		Kind:        "eip",
		URL:         srcDir,
		InputSubdir: "EIPS",
	})
	require.NoError(t, err)
	defer snap.Cleanup()

	assert.DirExists(t, snap.InputDir)
	assert.FileExists(t, snap.InputDir+"/eip-1.md")
	assert.Empty(t, snap.Head)
}

func TestGetterAcquirerMissingInputSubdir(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(srcDir+"/README.md", []byte("no proposals here"), 0644))

	acquirer := NewGetterAcquirer(testLogger())
	_, err := acquirer.Acquire(context.Background(), Source{
		Name:        "EIPs",
		Kind:        "eip",
		URL:         srcDir,
		InputSubdir: "EIPS",
	})
	require.Error(t, err)
	assert.True(t, errors.IsAcquireError(err))
}

func TestGitAcquirerLocalClone(t *testing.T) {
	// Local-path clones go through the file transport, which shells out
	// to git-upload-pack.
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not available")
	}

	srcDir := gittest.CreateRepo(t)
	gittest.CommitFiles(t, srcDir, map[string]string{
		"EIPS/eip-1.md": "---\neip: 1\n---\n## Abstract\nFirst.",
	}, "add eip-1")

	acquirer := NewGitAcquirer(testLogger())
	snap, err := acquirer.Acquire(context.Background(), Source{
		Name:        "EIPs",
		Kind:        "eip",
		URL:         srcDir,
		InputSubdir: "EIPS",
	})
	require.NoError(t, err)

	assert.DirExists(t, snap.InputDir)
	assert.Equal(t, gittest.Head(t, srcDir), snap.Head)
	assert.NotEqual(t, srcDir, snap.Dir, "snapshot must be a fresh copy, not the source")

	dir := snap.Dir
	snap.Cleanup()
	assert.NoDirExists(t, dir)

	// Second cleanup is a no-op
	snap.Cleanup()
}

func TestGitAcquirerUnreachableSource(t *testing.T) {
	acquirer := NewGitAcquirer(testLogger())
	_, err := acquirer.Acquire(context.Background(), Source{
		Name: "EIPs",
		Kind: "eip",
		URL:  t.TempDir() + "/does-not-exist",
	})
	require.Error(t, err)
	assert.True(t, errors.IsAcquireError(err))
}

func TestIsGitSource(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://github.com/ethereum/EIPs", true},
		{"https://github.com/ethereum/ERCs.git", true},
		{"git@github.com:ethereum/EIPs.git", true},
		{"git://example.com/repo", true},
		{"https://example.com/corpus.tar.gz", false},
		{"https://github.com/ethereum/EIPs/archive/main.tar.gz", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isGitSource(tt.input), "input %q", tt.input)
	}
}

func TestNewAcquirerSelection(t *testing.T) {
	log := testLogger()

	_, isGit := NewAcquirer(Source{URL: "https://github.com/ethereum/EIPs"}, log).(*GitAcquirer)
	assert.True(t, isGit)

	_, isGetter := NewAcquirer(Source{URL: "https://example.com/corpus.tar.gz"}, log).(*GetterAcquirer)
	assert.True(t, isGetter)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a-b-c", sanitizeName("a:b/c"))
	assert.Equal(t, "corpus", sanitizeName(""))
}
