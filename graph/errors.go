//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrThreadIDEmpty is returned by checkpoint savers when the thread id is empty.
	ErrThreadIDEmpty = errors.New("thread id cannot be empty")
	// ErrAlreadyCompiled is returned when a builder is reused after Compile.
	ErrAlreadyCompiled = errors.New("graph has already been compiled")
)

// ValidationError reports a structurally invalid graph at compile time.
// It is raised before any execution and never retried.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid graph: " + e.Message
}

// DuplicateNodeError reports a node registered twice or under a reserved id.
type DuplicateNodeError struct {
	NodeID string
	Reason string
}

// Error implements the error interface.
func (e *DuplicateNodeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("duplicate node %s: %s", e.NodeID, e.Reason)
	}
	return fmt.Sprintf("node %s is already registered", e.NodeID)
}

// UnknownNodeError reports an edge referring to an unregistered node.
type UnknownNodeError struct {
	NodeID string
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %s", e.NodeID)
}

// RoutingError reports a conditional edge decision that does not map to any
// registered route. It signals a defect in the graph definition and is fatal
// for the current run.
type RoutingError struct {
	From     string
	RouteKey string
	Err      error
}

// Error implements the error interface.
func (e *RoutingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("routing from node %s failed: %v", e.From, e.Err)
	}
	return fmt.Sprintf("route key %q from node %s not found in path map", e.RouteKey, e.From)
}

// Unwrap returns the underlying condition error, if any.
func (e *RoutingError) Unwrap() error {
	return e.Err
}

// NodeExecutionError reports a node function failure. The run aborts at that
// step; the last successful checkpoint remains the resume point. The engine
// performs no automatic retry.
type NodeExecutionError struct {
	NodeID string
	Step   int
	Err    error
}

// Error implements the error interface.
func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s failed at step %d: %v", e.NodeID, e.Step, e.Err)
}

// Unwrap returns the underlying node error.
func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

// CheckpointWriteError reports a failed checkpoint write. The in-memory state
// already computed for the current call stays valid and the run continues;
// resumability from this exact step is not guaranteed after a crash.
type CheckpointWriteError struct {
	ThreadID string
	Step     int
	Err      error
}

// Error implements the error interface.
func (e *CheckpointWriteError) Error() string {
	return fmt.Sprintf("checkpoint write for thread %s at step %d failed: %v", e.ThreadID, e.Step, e.Err)
}

// Unwrap returns the underlying store error.
func (e *CheckpointWriteError) Unwrap() error {
	return e.Err
}
