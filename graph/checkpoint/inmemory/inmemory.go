//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides in-memory snapshot storage for graph execution
// state persistence and recovery. It is suitable for tests and single-process
// use, not for durability across restarts.
package inmemory

import (
	"context"
	"sync"

	"github.com/weftworks/weft/graph"
)

// Saver is a map-backed implementation of graph.Saver.
// Concurrent Put/Get per thread serialize on the saver mutex;
// the last write per thread wins.
type Saver struct {
	mu        sync.RWMutex
	snapshots map[string]*graph.Snapshot
}

// NewSaver creates a new in-memory snapshot saver.
func NewSaver() *Saver {
	return &Saver{
		snapshots: make(map[string]*graph.Snapshot),
	}
}

// Get retrieves the latest snapshot for a thread, nil when absent.
func (s *Saver) Get(ctx context.Context, threadID string) (*graph.Snapshot, error) {
	if threadID == "" {
		return nil, graph.ErrThreadIDEmpty
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[threadID].Clone(), nil
}

// Put stores a snapshot, replacing any previous one for the thread.
func (s *Saver) Put(ctx context.Context, snapshot *graph.Snapshot) error {
	if snapshot == nil || snapshot.ThreadID == "" {
		return graph.ErrThreadIDEmpty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.ThreadID] = snapshot.Clone()
	return nil
}

// List returns the known thread ids.
func (s *Saver) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes the snapshot for a thread.
func (s *Saver) Delete(ctx context.Context, threadID string) error {
	if threadID == "" {
		return graph.ErrThreadIDEmpty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, threadID)
	return nil
}

// Close releases resources held by the saver.
func (s *Saver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = make(map[string]*graph.Snapshot)
	return nil
}
