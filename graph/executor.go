//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/weftworks/weft/log"
	"github.com/weftworks/weft/telemetry/trace"
)

const (
	defaultMaxSteps          = 100
	defaultChannelBufferSize = 64
)

// Executor executes a compiled graph: a strictly sequential chain of node
// executions with reducer merges between them. One Executor may serve many
// concurrent Invoke/Stream calls; each call owns its state end-to-end.
type Executor struct {
	graph             *Graph
	saver             Saver
	callbacks         *Callbacks
	maxSteps          int
	nodeTimeout       time.Duration
	channelBufferSize int
}

// ExecutorOptions contains configuration options for creating an Executor.
type ExecutorOptions struct {
	// Saver persists per-thread snapshots. Nil disables checkpointing.
	Saver Saver
	// Callbacks holds node and checkpoint hooks.
	Callbacks *Callbacks
	// MaxSteps bounds the number of node executions per run (default: 100).
	MaxSteps int
	// NodeTimeout bounds a single node execution. Zero means no timeout.
	NodeTimeout time.Duration
	// ChannelBufferSize is the buffer size for stream channels (default: 64).
	ChannelBufferSize int
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*ExecutorOptions)

// WithCheckpointSaver sets the snapshot store used for suspend and resume.
func WithCheckpointSaver(saver Saver) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.Saver = saver
	}
}

// WithCallbacks sets the execution callbacks.
func WithCallbacks(cb *Callbacks) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.Callbacks = cb
	}
}

// WithMaxSteps sets the maximum number of steps for graph execution.
func WithMaxSteps(maxSteps int) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.MaxSteps = maxSteps
	}
}

// WithNodeTimeout sets a timeout applied to each node execution.
func WithNodeTimeout(d time.Duration) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.NodeTimeout = d
	}
}

// WithChannelBufferSize sets the buffer size for stream channels.
func WithChannelBufferSize(size int) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.ChannelBufferSize = size
	}
}

// NewExecutor creates a new graph executor.
func NewExecutor(graph *Graph, opts ...ExecutorOption) (*Executor, error) {
	if err := graph.validate(); err != nil {
		return nil, err
	}
	options := ExecutorOptions{
		MaxSteps:          defaultMaxSteps,
		ChannelBufferSize: defaultChannelBufferSize,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Executor{
		graph:             graph,
		saver:             options.Saver,
		callbacks:         options.Callbacks,
		maxSteps:          options.MaxSteps,
		nodeTimeout:       options.NodeTimeout,
		channelBufferSize: options.ChannelBufferSize,
	}, nil
}

// InvokeOptions contains per-call configuration.
type InvokeOptions struct {
	// ThreadID keys the run's snapshots. Required for resume.
	ThreadID string
	// InterruptBefore pauses the run right before any of the named nodes.
	InterruptBefore []string
	// InterruptAfter pauses the run right after any of the named nodes.
	InterruptAfter []string
}

// InvokeOption is a function that configures a single Invoke or Stream call.
type InvokeOption func(*InvokeOptions)

// WithThreadID keys the run's snapshots by the given thread id.
func WithThreadID(threadID string) InvokeOption {
	return func(opts *InvokeOptions) {
		opts.ThreadID = threadID
	}
}

// WithInterruptBefore pauses the run right before the named nodes execute.
func WithInterruptBefore(nodes ...string) InvokeOption {
	return func(opts *InvokeOptions) {
		opts.InterruptBefore = append(opts.InterruptBefore, nodes...)
	}
}

// WithInterruptAfter pauses the run right after the named nodes execute.
func WithInterruptAfter(nodes ...string) InvokeOption {
	return func(opts *InvokeOptions) {
		opts.InterruptAfter = append(opts.InterruptAfter, nodes...)
	}
}

// Step describes one completed node execution within a streamed run.
type Step struct {
	// N is the 1-based step number.
	N int
	// NodeID is the node that just completed.
	NodeID string
	// NextNodeID is the resolved next node, or End.
	NextNodeID string
	// State is a copy of the merged state after the step.
	State State
	// Err carries the terminal error of the run; it is only set on the final
	// item of a failed stream.
	Err error
}

// Invoke runs the graph to completion and returns the final state.
// When a thread id with a persisted snapshot is supplied, the run resumes
// from the last completed step instead of restarting. A paused run returns
// the current state together with an *InterruptError.
func (e *Executor) Invoke(ctx context.Context, initial State, opts ...InvokeOption) (State, error) {
	options := buildInvokeOptions(opts)
	ctx, span := trace.Tracer.Start(ctx, "invoke_graph")
	defer span.End()
	span.SetAttributes(attribute.String("weft.thread_id", options.ThreadID))
	return e.run(ctx, initial, options, nil)
}

// Stream runs the graph like Invoke but yields one Step per completed node
// execution. The channel is closed when the run finishes; a failed run's last
// item carries the error in Step.Err.
func (e *Executor) Stream(ctx context.Context, initial State, opts ...InvokeOption) (<-chan *Step, error) {
	options := buildInvokeOptions(opts)
	out := make(chan *Step, e.channelBufferSize)
	go func() {
		defer close(out)
		ctx, span := trace.Tracer.Start(ctx, "stream_graph")
		defer span.End()
		span.SetAttributes(attribute.String("weft.thread_id", options.ThreadID))
		_, err := e.run(ctx, initial, options, func(step *Step) error {
			select {
			case out <- step:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			select {
			case out <- &Step{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

func buildInvokeOptions(opts []InvokeOption) *InvokeOptions {
	options := &InvokeOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// run drives the step loop shared by Invoke and Stream.
func (e *Executor) run(ctx context.Context, initial State, opts *InvokeOptions, emit func(*Step) error) (State, error) {
	state, current, step, resumed, err := e.prepare(ctx, initial, opts)
	if err != nil {
		return nil, err
	}
	for current != End {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step >= e.maxSteps {
			return nil, fmt.Errorf("maximum execution steps (%d) exceeded", e.maxSteps)
		}
		// A resumed run must execute the node it paused before, so the
		// interrupt check is skipped exactly once.
		if !resumed && slices.Contains(opts.InterruptBefore, current) {
			e.writeSnapshot(ctx, opts, nil, state, current, step)
			return state, newInterruptError(current, step, true)
		}
		resumed = false

		node, ok := e.graph.Node(current)
		if !ok {
			return nil, &UnknownNodeError{NodeID: current}
		}
		nodeCtx := &NodeContext{
			NodeID:    node.ID,
			NodeName:  node.Name,
			Step:      step + 1,
			ThreadID:  opts.ThreadID,
			StartTime: time.Now(),
		}
		delta, err := e.executeNode(ctx, node, nodeCtx, state)
		if err != nil {
			return nil, err
		}
		state = e.graph.Schema().ApplyUpdate(state, delta)
		step++

		next, err := e.selectNext(ctx, state, current)
		if err != nil {
			return nil, err
		}
		e.writeSnapshot(ctx, opts, nodeCtx, state, next, step)
		if emit != nil {
			if err := emit(&Step{N: step, NodeID: current, NextNodeID: next, State: state.Clone()}); err != nil {
				return nil, err
			}
		}
		if slices.Contains(opts.InterruptAfter, current) {
			return state, newInterruptError(current, step, false)
		}
		current = next
	}
	return state, nil
}

// prepare resolves the starting state and node: from the thread's snapshot
// when resuming, otherwise from channel defaults plus the caller input.
func (e *Executor) prepare(ctx context.Context, initial State, opts *InvokeOptions) (State, string, int, bool, error) {
	if e.saver != nil && opts.ThreadID != "" {
		snapshot, err := e.saver.Get(ctx, opts.ThreadID)
		if err != nil {
			return nil, "", 0, false, fmt.Errorf("load snapshot for thread %s: %w", opts.ThreadID, err)
		}
		if snapshot != nil && !snapshot.Done() {
			state := snapshot.Clone().State
			if len(initial) > 0 {
				state = e.graph.Schema().ApplyUpdate(state, initial)
			}
			return state, snapshot.NodeID, snapshot.Step, true, nil
		}
	}
	state := e.graph.Schema().InitialState(initial)
	first, err := e.selectNext(ctx, state, Entry)
	if err != nil {
		return nil, "", 0, false, err
	}
	return state, first, 0, false, nil
}

// executeNode runs a single node function with callbacks and the optional
// per-node timeout. This is the engine's one designed suspension point.
func (e *Executor) executeNode(ctx context.Context, node *Node, nodeCtx *NodeContext, state State) (State, error) {
	ctx, span := trace.Tracer.Start(ctx, "execute_node "+node.ID)
	defer span.End()
	span.SetAttributes(
		attribute.String("weft.node_id", node.ID),
		attribute.Int("weft.step", nodeCtx.Step),
		attribute.String("weft.thread_id", nodeCtx.ThreadID),
	)

	if delta, err := e.callbacks.runBeforeNode(ctx, nodeCtx, state); err != nil {
		return nil, &NodeExecutionError{NodeID: node.ID, Step: nodeCtx.Step, Err: err}
	} else if delta != nil {
		return delta, nil
	}

	runCtx := ctx
	if e.nodeTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.nodeTimeout)
		defer cancel()
	}
	var delta State
	var nodeErr error
	if node.Function != nil {
		delta, nodeErr = node.Function(runCtx, state)
	}
	delta, nodeErr = e.callbacks.runAfterNode(ctx, nodeCtx, state, delta, nodeErr)
	if nodeErr != nil {
		span.SetAttributes(attribute.String("weft.error", nodeErr.Error()))
		return nil, &NodeExecutionError{NodeID: node.ID, Step: nodeCtx.Step, Err: nodeErr}
	}
	return delta, nil
}

// selectNext resolves the outgoing edge of a node against the current state.
func (e *Executor) selectNext(ctx context.Context, state State, nodeID string) (string, error) {
	if condEdge, ok := e.graph.ConditionalEdge(nodeID); ok {
		key, err := condEdge.Condition(ctx, state)
		if err != nil {
			return "", &RoutingError{From: nodeID, Err: err}
		}
		if next, ok := condEdge.PathMap[key]; ok {
			return next, nil
		}
		return "", &RoutingError{From: nodeID, RouteKey: key}
	}
	edges := e.graph.Edges(nodeID)
	if len(edges) == 0 {
		return "", fmt.Errorf("node %s has no outgoing edge", nodeID)
	}
	return edges[0].To, nil
}

// writeSnapshot persists the state after a completed step. A failed write is
// surfaced through the log and the checkpoint-error callbacks but does not
// roll back the already-applied merge.
func (e *Executor) writeSnapshot(ctx context.Context, opts *InvokeOptions, nodeCtx *NodeContext, state State, next string, step int) {
	if e.saver == nil || opts.ThreadID == "" {
		return
	}
	snapshot := NewSnapshot(opts.ThreadID, step, next, state)
	if err := e.saver.Put(ctx, snapshot); err != nil {
		writeErr := &CheckpointWriteError{ThreadID: opts.ThreadID, Step: step, Err: err}
		log.Warnf("%v", writeErr)
		e.callbacks.runOnCheckpointError(ctx, nodeCtx, writeErr)
	}
}
