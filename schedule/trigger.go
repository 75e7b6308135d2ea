// Package schedule delivers sync-cycle triggers: a wall-clock timer, an
// operator-initiated manual trigger, and filesystem path changes.
package schedule

import "context"

// TriggerKind identifies what initiated a cycle.
type TriggerKind string

const (
	TriggerTimer      TriggerKind = "timer"
	TriggerManual     TriggerKind = "manual"
	TriggerPathChange TriggerKind = "path_change"
)

// Trigger describes one cycle initiation. Paths is only set for
// path-change triggers.
type Trigger struct {
	Kind  TriggerKind
	Paths []string
}

// CycleFunc runs one sync cycle for a trigger. A cycle already in
// progress surfaces as ErrCycleInProgress; the trigger sources log it
// and keep running.
type CycleFunc func(ctx context.Context, trigger Trigger) error
