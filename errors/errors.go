// Package errors provides error handling for propsum.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, error wrapping, and structured details, plus the sentinel errors
// used across the sync cycle.
//
// Usage:
//
//	// Wrap with context
//	if err := acquire(ctx, src); err != nil {
//	    return errors.Wrap(err, "failed to acquire corpus")
//	}
//
//	// Check failure class
//	if errors.Is(err, errors.ErrPublishRejected) {
//	    // remote moved underneath us; next scheduled run retries
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	CombineErrors = crdb.CombineErrors
)

// Sentinel errors for the sync cycle. Each marks one failure class from
// the cycle contract; wrap them with Wrap/Wrapf to add context while
// preserving errors.Is checks.
var (
	// ErrAcquireFailed indicates a corpus could not be cloned or fetched.
	ErrAcquireFailed = New("corpus acquisition failed")

	// ErrSummarizeFailed indicates a summarizer invocation failed. Partial
	// output under the output directory must not be published.
	ErrSummarizeFailed = New("summarizer failed")

	// ErrPublishRejected indicates the remote refused the push, typically a
	// non-fast-forward rejection after a concurrent write.
	ErrPublishRejected = New("publish rejected by remote")

	// ErrCycleInProgress indicates another cycle already holds the lock for
	// the target branch. The triggering caller should skip, not queue.
	ErrCycleInProgress = New("cycle already in progress")
)

// IsAcquireError reports whether err is or wraps ErrAcquireFailed.
func IsAcquireError(err error) bool {
	return err != nil && Is(err, ErrAcquireFailed)
}

// IsSummarizeError reports whether err is or wraps ErrSummarizeFailed.
func IsSummarizeError(err error) bool {
	return err != nil && Is(err, ErrSummarizeFailed)
}

// IsPublishError reports whether err is or wraps ErrPublishRejected.
func IsPublishError(err error) bool {
	return err != nil && Is(err, ErrPublishRejected)
}
