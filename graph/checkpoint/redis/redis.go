//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

// Package redis provides Redis-backed snapshot storage for graph execution
// state persistence and recovery. Snapshots are stored as JSON values under a
// key prefix with a SET index of thread ids, so channel values must be
// JSON-serializable; numbers come back as float64 after a round trip.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/weftworks/weft/graph"
)

const defaultPrefix = "weft:thread:"

// Saver is a Redis-backed implementation of graph.Saver.
type Saver struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Saver.
type Option func(*Saver)

// WithTTL sets the expiration for snapshots. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Saver) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for snapshots.
func WithPrefix(prefix string) Option {
	return func(s *Saver) {
		s.prefix = prefix
	}
}

// New creates a new Redis saver with its own client.
func New(address, password string, db int, opts ...Option) *Saver {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a new Redis saver from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Saver {
	s := &Saver{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Saver) key(threadID string) string {
	return s.prefix + threadID
}

func (s *Saver) indexKey() string {
	return s.prefix + "index"
}

// Get retrieves the latest snapshot for a thread, nil when absent.
func (s *Saver) Get(ctx context.Context, threadID string) (*graph.Snapshot, error) {
	if threadID == "" {
		return nil, graph.ErrThreadIDEmpty
	}
	val, err := s.client.Get(ctx, s.key(threadID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot from redis: %w", err)
	}
	var snapshot graph.Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Put stores a snapshot, replacing any previous one for the thread.
func (s *Saver) Put(ctx context.Context, snapshot *graph.Snapshot) error {
	if snapshot == nil || snapshot.ThreadID == "" {
		return graph.ErrThreadIDEmpty
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(snapshot.ThreadID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), snapshot.ThreadID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store snapshot in redis: %w", err)
	}
	return nil
}

// List returns the known thread ids.
func (s *Saver) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list threads from redis: %w", err)
	}
	return ids, nil
}

// Delete removes the snapshot for a thread.
func (s *Saver) Delete(ctx context.Context, threadID string) error {
	if threadID == "" {
		return graph.ErrThreadIDEmpty
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(threadID))
	pipe.SRem(ctx, s.indexKey(), threadID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete snapshot from redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Saver) Close() error {
	return s.client.Close()
}
