package summarize

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propsum/propsum/config"
	"github.com/propsum/propsum/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRun(t *testing.T) {
	requireShell(t)

	outputDir := t.TempDir()
	script := filepath.Join(t.TempDir(), "summarize.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$1 $2 $3\" > \"$3/invoked.txt\"\n"), 0755))

	s := NewExec(script, zap.NewNop().Sugar())
	require.NoError(t, s.Run(context.Background(), KindEIP, "/tmp/in", outputDir))

	raw, err := os.ReadFile(filepath.Join(outputDir, "invoked.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "eip /tmp/in")
}

func TestExecRunFailure(t *testing.T) {
	requireShell(t)

	s := NewExec(`sh -c "echo boom >&2; exit 3"`, zap.NewNop().Sugar())
	err := s.Run(context.Background(), KindEIP, t.TempDir(), t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.IsSummarizeError(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestExecEmptyCommand(t *testing.T) {
	s := NewExec("", zap.NewNop().Sugar())
	err := s.Run(context.Background(), KindEIP, t.TempDir(), t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.IsSummarizeError(err))
}

func TestExecBadQuoting(t *testing.T) {
	s := NewExec(`summarize "unterminated`, zap.NewNop().Sugar())
	err := s.Run(context.Background(), KindEIP, t.TempDir(), t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.IsSummarizeError(err))
}

func TestNewSelectsSummarizer(t *testing.T) {
	logger := zap.NewNop().Sugar()

	builtin := New(config.SummarizeConfig{}, logger)
	assert.IsType(t, &Builtin{}, builtin)

	external := New(config.SummarizeConfig{Command: "summarize.sh"}, logger)
	assert.IsType(t, &Exec{}, external)
}
