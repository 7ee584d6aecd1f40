//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/graph"
	"github.com/weftworks/weft/graph/checkpoint/inmemory"
)

func counterExecutor(t *testing.T, opts ...graph.ExecutorOption) *graph.Executor {
	t.Helper()
	schema := graph.NewSchema().AddChannel("count", graph.Channel{
		Type:    reflect.TypeOf(0),
		Default: func() any { return 0 },
		Reducer: func(existing, update any) any {
			return existing.(int) + update.(int)
		},
	})
	g, err := graph.NewStateGraph(schema).
		AddNode("increment", func(ctx context.Context, state graph.State) (graph.State, error) {
			return graph.State{"count": 1}, nil
		}).
		AddConditionalEdges("increment",
			func(ctx context.Context, state graph.State) (string, error) {
				if state["count"].(int) < 3 {
					return "loop", nil
				}
				return "done", nil
			},
			map[string]string{"loop": "increment", "done": graph.End}).
		SetEntryPoint("increment").
		Compile()
	require.NoError(t, err)
	executor, err := graph.NewExecutor(g, opts...)
	require.NoError(t, err)
	return executor
}

func TestRunManyThreads(t *testing.T) {
	runner, err := New(counterExecutor(t), WithPoolSize(4))
	require.NoError(t, err)
	defer runner.Release()

	inputs := map[string]graph.State{
		"t1": {},
		"t2": {"count": 1},
		"t3": {"count": 2},
	}
	results, err := runner.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	finals := make(map[string]int)
	for _, result := range results {
		require.NoError(t, result.Err)
		finals[result.ThreadID] = result.State["count"].(int)
	}
	// Each thread runs to the same threshold regardless of its starting count.
	assert.Equal(t, map[string]int{"t1": 3, "t2": 3, "t3": 3}, finals)
}

func TestRunThreadsAreCheckpointedIndependently(t *testing.T) {
	saver := inmemory.NewSaver()
	runner, err := New(counterExecutor(t, graph.WithCheckpointSaver(saver)))
	require.NoError(t, err)
	defer runner.Release()

	_, err = runner.Run(context.Background(), map[string]graph.State{
		"t1": {},
		"t2": {},
	})
	require.NoError(t, err)

	ids, err := saver.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t1", "t2"}, ids)

	for _, id := range []string{"t1", "t2"} {
		snapshot, err := saver.Get(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.True(t, snapshot.Done())
		assert.Equal(t, 3, snapshot.State["count"])
	}
}

func TestRunReportsPerThreadErrors(t *testing.T) {
	g, err := graph.NewStateGraph(graph.NewSchema()).
		AddNode("check", func(ctx context.Context, state graph.State) (graph.State, error) {
			if state["fail"] == true {
				return nil, errors.New("asked to fail")
			}
			return nil, nil
		}).
		SetEntryPoint("check").
		SetFinishPoint("check").
		Compile()
	require.NoError(t, err)
	executor, err := graph.NewExecutor(g)
	require.NoError(t, err)

	runner, err := New(executor)
	require.NoError(t, err)
	defer runner.Release()

	results, err := runner.Run(context.Background(), map[string]graph.State{
		"good": {},
		"bad":  {"fail": true},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, result := range results {
		switch result.ThreadID {
		case "good":
			assert.NoError(t, result.Err)
		case "bad":
			var nerr *graph.NodeExecutionError
			assert.ErrorAs(t, result.Err, &nerr)
		}
	}
}

func TestRunEmptyInputs(t *testing.T) {
	runner, err := New(counterExecutor(t))
	require.NoError(t, err)
	defer runner.Release()

	results, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
