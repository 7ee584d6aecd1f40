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
	"time"
)

// InterruptError reports a run paused at an interrupt point requested via
// WithInterruptBefore or WithInterruptAfter. The snapshot written for the
// thread makes the run resumable: invoke again with the same thread id.
type InterruptError struct {
	// NodeID is the node the run paused around.
	NodeID string
	// Step is the number of completed steps when the pause happened.
	Step int
	// Before is true when the pause happened before NodeID executed.
	Before bool
	// Timestamp is when the interrupt occurred.
	Timestamp time.Time
}

// Error returns the error message for the interrupt.
func (e *InterruptError) Error() string {
	side := "after"
	if e.Before {
		side = "before"
	}
	return fmt.Sprintf("execution interrupted %s node %s (step %d)", side, e.NodeID, e.Step)
}

// newInterruptError creates an InterruptError for the given pause point.
func newInterruptError(nodeID string, step int, before bool) *InterruptError {
	return &InterruptError{
		NodeID:    nodeID,
		Step:      step,
		Before:    before,
		Timestamp: time.Now().UTC(),
	}
}

// IsInterrupt checks if an error is an InterruptError.
func IsInterrupt(err error) bool {
	var ie *InterruptError
	return errors.As(err, &ie)
}

// AsInterrupt extracts an InterruptError from an error.
func AsInterrupt(err error) (*InterruptError, bool) {
	var ie *InterruptError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
