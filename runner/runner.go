//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

// Package runner executes many independent threads of a compiled graph
// concurrently. Each thread remains a strictly sequential run that owns its
// own state; the runner only fans out across thread ids and collects the
// results, which is how branch/merge workflows compose without in-run
// parallelism.
package runner

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/weftworks/weft/graph"
)

const defaultPoolSize = 8

// Result is the outcome of one thread's run.
type Result struct {
	ThreadID string
	State    graph.State
	Err      error
}

// Runner fans independent Invoke calls out over a goroutine pool.
type Runner struct {
	executor *graph.Executor
	pool     *ants.Pool
}

// Options configures a Runner.
type Options struct {
	// PoolSize is the number of concurrent runs (default: 8).
	PoolSize int
}

// Option is a function that configures a Runner.
type Option func(*Options)

// WithPoolSize sets the number of concurrent runs.
func WithPoolSize(size int) Option {
	return func(o *Options) {
		o.PoolSize = size
	}
}

// New creates a Runner over the given executor.
func New(executor *graph.Executor, opts ...Option) (*Runner, error) {
	options := Options{PoolSize: defaultPoolSize}
	for _, opt := range opts {
		opt(&options)
	}
	pool, err := ants.NewPool(options.PoolSize)
	if err != nil {
		return nil, err
	}
	return &Runner{executor: executor, pool: pool}, nil
}

// Run invokes the graph once per entry of inputs, keyed by thread id, and
// waits for every run to finish. Per-thread failures are reported in the
// Result, not returned; the error return covers pool submission only.
func (r *Runner) Run(ctx context.Context, inputs map[string]graph.State, opts ...graph.InvokeOption) ([]Result, error) {
	results := make([]Result, 0, len(inputs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for threadID, input := range inputs {
		threadID, input := threadID, input
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			callOpts := append([]graph.InvokeOption{graph.WithThreadID(threadID)}, opts...)
			state, err := r.executor.Invoke(ctx, input, callOpts...)
			mu.Lock()
			results = append(results, Result{ThreadID: threadID, State: state, Err: err})
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return results, err
		}
	}
	wg.Wait()
	return results, nil
}

// Release shuts the goroutine pool down.
func (r *Runner) Release() {
	r.pool.Release()
}
