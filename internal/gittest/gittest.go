// Package gittest provides git repository fixtures for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature is the fixed identity used for fixture commits. A fixed
// timestamp keeps fixture hashes reproducible across runs.
var Signature = object.Signature{
	Name:  "fixture",
	Email: "fixture@test.local",
	When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// CreateRepo initializes a non-bare repository with branch main in a
// fresh temp directory and returns its path.
func CreateRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.Main,
		},
	})
	if err != nil {
		t.Fatalf("failed to init fixture repository: %v", err)
	}

	return dir
}

// WriteFiles writes the given relative-path -> content map under dir,
// creating parent directories as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// Commit stages everything in the worktree and commits it, returning the
// commit hash.
func Commit(t *testing.T, dir, message string) string {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("failed to open fixture repository: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to stage fixture files: %v", err)
	}

	sig := Signature
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author:    &sig,
		Committer: &sig,
	})
	if err != nil {
		t.Fatalf("failed to commit fixture: %v", err)
	}

	return hash.String()
}

// CommitFiles writes files and commits them in one step.
func CommitFiles(t *testing.T, dir string, files map[string]string, message string) string {
	t.Helper()

	WriteFiles(t, dir, files)
	return Commit(t, dir, message)
}

// Head returns the current HEAD hash of the repository at dir.
func Head(t *testing.T, dir string) string {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}

	ref, err := repo.Head()
	if err != nil {
		t.Fatalf("failed to resolve HEAD: %v", err)
	}

	return ref.Hash().String()
}
