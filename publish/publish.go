// Package publish commits and pushes regenerated summary artifacts.
//
// The publisher only ever touches the configured output directory: staging,
// change detection and commits are all scoped to it, so unrelated working
// tree state in the target repository is never picked up.
package publish

import (
	"context"
)

// Identity is the author and committer recorded on published commits.
type Identity struct {
	Name  string
	Email string
}

// Publisher records summary artifacts in a repository and pushes them
// upstream. Implementations must keep every operation scoped to the given
// directory, relative to the repository root.
type Publisher interface {
	// Stage adds the contents of dir to the index.
	Stage(ctx context.Context, dir string) error

	// HasChanges reports whether the staged state of dir differs from HEAD.
	HasChanges(ctx context.Context, dir string) (bool, error)

	// Commit records the staged changes and returns the commit hash.
	Commit(ctx context.Context, message string, ident Identity) (string, error)

	// Push publishes the configured branch to the configured remote.
	Push(ctx context.Context) error
}
