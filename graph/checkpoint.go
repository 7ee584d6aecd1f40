//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a persisted picture of a run: the merged state after a
// completed step plus the node to execute next (End when the run finished).
// Snapshots are keyed by thread id; the engine writes one per completed step
// and the latest write per thread wins.
type Snapshot struct {
	// ID is the unique identifier for this snapshot.
	ID string `json:"id"`
	// ThreadID identifies the run the snapshot belongs to.
	ThreadID string `json:"thread_id"`
	// Step is the number of completed node executions.
	Step int `json:"step"`
	// NodeID is the next node to execute when resuming, or End.
	NodeID string `json:"node_id"`
	// State holds the channel values at snapshot time.
	State State `json:"state"`
	// Timestamp is when the snapshot was created.
	Timestamp time.Time `json:"ts"`
}

// NewSnapshot creates a snapshot with a fresh id and a deep-copied state, so
// later merges in the running execution cannot leak into it.
func NewSnapshot(threadID string, step int, nodeID string, state State) *Snapshot {
	copied := make(State, len(state))
	for k, v := range state {
		copied[k] = deepCopyAny(v)
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Step:      step,
		NodeID:    nodeID,
		State:     copied,
		Timestamp: time.Now().UTC(),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	clone := *s
	clone.State = make(State, len(s.State))
	for k, v := range s.State {
		clone.State[k] = deepCopyAny(v)
	}
	return &clone
}

// Done reports whether the snapshot marks a finished run.
func (s *Snapshot) Done() bool {
	return s != nil && s.NodeID == End
}

// Saver persists snapshots keyed by thread id so a run can suspend and later
// resume from the last completed step. The engine calls Get at most once per
// Invoke/Stream call (only when a thread id is supplied) and Put once per
// completed step. No transactional guarantee is required across Put calls;
// concurrent Put/Get for the same thread must serialize, last-writer-wins.
type Saver interface {
	// Get retrieves the latest snapshot for a thread, nil when absent.
	Get(ctx context.Context, threadID string) (*Snapshot, error)
	// Put stores a snapshot, replacing any previous one for the thread.
	Put(ctx context.Context, snapshot *Snapshot) error
	// List returns the known thread ids.
	List(ctx context.Context) ([]string, error)
	// Delete removes the snapshot for a thread.
	Delete(ctx context.Context, threadID string) error
	// Close releases resources held by the saver.
	Close() error
}
