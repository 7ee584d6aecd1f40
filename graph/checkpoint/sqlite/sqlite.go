//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

// Package sqlite provides SQLite-backed snapshot storage for graph execution
// state persistence and recovery. Snapshots are stored one row per thread as
// JSON blobs, so channel values must be JSON-serializable; numbers come back
// as float64 after a round trip.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/weftworks/weft/graph"
)

const (
	sqliteCreateSnapshots = "CREATE TABLE IF NOT EXISTS snapshots (" +
		"thread_id TEXT NOT NULL, " +
		"snapshot_id TEXT NOT NULL, " +
		"step INTEGER NOT NULL, " +
		"ts INTEGER NOT NULL, " +
		"snapshot_json BLOB NOT NULL, " +
		"PRIMARY KEY (thread_id)" +
		")"

	sqliteUpsertSnapshot = "INSERT OR REPLACE INTO snapshots (" +
		"thread_id, snapshot_id, step, ts, snapshot_json) VALUES (?, ?, ?, ?, ?)"

	sqliteSelectSnapshot = "SELECT snapshot_json FROM snapshots WHERE thread_id = ? LIMIT 1"

	sqliteSelectThreads = "SELECT thread_id FROM snapshots ORDER BY ts DESC"

	sqliteDeleteThread = "DELETE FROM snapshots WHERE thread_id = ?"
)

// Saver is a SQLite-backed implementation of graph.Saver.
// It expects an initialized *sql.DB using a SQLite driver and creates the
// required schema. Suitable for production use with a persistent database.
type Saver struct {
	db *sql.DB
}

// NewSaver creates a new saver using the provided DB.
// The constructor creates the snapshots table if needed.
func NewSaver(db *sql.DB) (*Saver, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if _, err := db.Exec(sqliteCreateSnapshots); err != nil {
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Saver{db: db}, nil
}

// Get retrieves the latest snapshot for a thread, nil when absent.
func (s *Saver) Get(ctx context.Context, threadID string) (*graph.Snapshot, error) {
	if threadID == "" {
		return nil, graph.ErrThreadIDEmpty
	}
	var blob []byte
	err := s.db.QueryRowContext(ctx, sqliteSelectSnapshot, threadID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	var snapshot graph.Snapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Put stores a snapshot, replacing any previous one for the thread.
func (s *Saver) Put(ctx context.Context, snapshot *graph.Snapshot) error {
	if snapshot == nil || snapshot.ThreadID == "" {
		return graph.ErrThreadIDEmpty
	}
	blob, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, sqliteUpsertSnapshot,
		snapshot.ThreadID, snapshot.ID, snapshot.Step, snapshot.Timestamp.UnixNano(), blob)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// List returns the known thread ids, most recently written first.
func (s *Saver) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectThreads)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan thread id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes the snapshot for a thread.
func (s *Saver) Delete(ctx context.Context, threadID string) error {
	if threadID == "" {
		return graph.ErrThreadIDEmpty
	}
	if _, err := s.db.ExecContext(ctx, sqliteDeleteThread, threadID); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Saver) Close() error {
	return s.db.Close()
}
