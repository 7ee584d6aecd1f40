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
)

// NodeContext provides context information for node callbacks.
type NodeContext struct {
	// NodeID is the ID of the node being executed.
	NodeID string
	// NodeName is the name of the node being executed.
	NodeName string
	// Step is the current step number in the graph execution.
	Step int
	// ThreadID is the thread id of the run, empty for unkeyed runs.
	ThreadID string
	// StartTime is when the node execution started.
	StartTime time.Time
}

// BeforeNodeFunc is called before a node is executed.
// Returns (customDelta, error):
//   - customDelta: if not nil, it is merged as the node's result and the node
//     function is skipped.
//   - error: if not nil, the run stops with this error.
type BeforeNodeFunc func(ctx context.Context, nodeCtx *NodeContext, state State) (State, error)

// AfterNodeFunc is called after a node is executed, before the merge.
// Returns (customDelta, error):
//   - customDelta: if not nil, it replaces the node's returned delta.
//   - error: if not nil, the run stops with this error.
type AfterNodeFunc func(ctx context.Context, nodeCtx *NodeContext, state State, delta State, nodeErr error) (State, error)

// CheckpointErrorFunc is called when a checkpoint write fails. The run keeps
// going; the callback exists for monitoring and alerting.
type CheckpointErrorFunc func(ctx context.Context, nodeCtx *NodeContext, err *CheckpointWriteError)

// Callbacks holds hooks for node execution and checkpointing.
type Callbacks struct {
	// BeforeNode callbacks run in registration order before each node.
	BeforeNode []BeforeNodeFunc
	// AfterNode callbacks run in registration order after each node.
	AfterNode []AfterNodeFunc
	// OnCheckpointError callbacks run when a snapshot write fails.
	OnCheckpointError []CheckpointErrorFunc
}

// NewCallbacks creates a new Callbacks instance.
func NewCallbacks() *Callbacks {
	return &Callbacks{}
}

// RegisterBeforeNode registers a before-node callback.
func (c *Callbacks) RegisterBeforeNode(cb BeforeNodeFunc) *Callbacks {
	c.BeforeNode = append(c.BeforeNode, cb)
	return c
}

// RegisterAfterNode registers an after-node callback.
func (c *Callbacks) RegisterAfterNode(cb AfterNodeFunc) *Callbacks {
	c.AfterNode = append(c.AfterNode, cb)
	return c
}

// RegisterOnCheckpointError registers a checkpoint-error callback.
func (c *Callbacks) RegisterOnCheckpointError(cb CheckpointErrorFunc) *Callbacks {
	c.OnCheckpointError = append(c.OnCheckpointError, cb)
	return c
}

// runBeforeNode runs the before-node callbacks. The first non-nil delta wins
// and skips the node function.
func (c *Callbacks) runBeforeNode(ctx context.Context, nodeCtx *NodeContext, state State) (State, error) {
	if c == nil {
		return nil, nil
	}
	for _, cb := range c.BeforeNode {
		delta, err := cb(ctx, nodeCtx, state)
		if err != nil {
			return nil, err
		}
		if delta != nil {
			return delta, nil
		}
	}
	return nil, nil
}

// runAfterNode runs the after-node callbacks, threading the (possibly
// replaced) delta through each one.
func (c *Callbacks) runAfterNode(ctx context.Context, nodeCtx *NodeContext, state State, delta State, nodeErr error) (State, error) {
	if c == nil {
		return delta, nodeErr
	}
	for _, cb := range c.AfterNode {
		custom, err := cb(ctx, nodeCtx, state, delta, nodeErr)
		if err != nil {
			return nil, err
		}
		if custom != nil {
			delta = custom
			nodeErr = nil
		}
	}
	return delta, nodeErr
}

// runOnCheckpointError runs the checkpoint-error callbacks.
func (c *Callbacks) runOnCheckpointError(ctx context.Context, nodeCtx *NodeContext, err *CheckpointWriteError) {
	if c == nil {
		return
	}
	for _, cb := range c.OnCheckpointError {
		cb(ctx, nodeCtx, err)
	}
}
