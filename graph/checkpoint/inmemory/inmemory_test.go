//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/graph"
)

func TestPutGetRoundTrip(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	snapshot := graph.NewSnapshot("t1", 2, "review",
		graph.State{"count": 3, "stage": "draft"})
	require.NoError(t, saver.Put(ctx, snapshot))

	got, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snapshot.ID, got.ID)
	assert.Equal(t, 2, got.Step)
	assert.Equal(t, "review", got.NodeID)
	assert.Equal(t, 3, got.State["count"])
}

func TestGetMissingThread(t *testing.T) {
	saver := NewSaver()
	got, err := saver.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutReplacesPrevious(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 1, "a", nil)))
	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 2, "b", nil)))

	got, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Step)
	assert.Equal(t, "b", got.NodeID)
}

func TestStoredSnapshotIsIsolated(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	state := graph.State{"items": []any{"a"}}
	snapshot := graph.NewSnapshot("t1", 1, "next", state)
	require.NoError(t, saver.Put(ctx, snapshot))

	// Mutations on either side of the store must not leak through.
	snapshot.State["items"].([]any)[0] = "mutated"
	first, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, first.State["items"])

	first.State["items"].([]any)[0] = "mutated"
	second, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, second.State["items"])
}

func TestListAndDelete(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 1, "a", nil)))
	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t2", 1, "a", nil)))

	ids, err := saver.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t1", "t2"}, ids)

	require.NoError(t, saver.Delete(ctx, "t1"))
	got, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)

	ids, err = saver.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids)
}

func TestEmptyThreadIDRejected(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	_, err := saver.Get(ctx, "")
	assert.ErrorIs(t, err, graph.ErrThreadIDEmpty)
	assert.ErrorIs(t, saver.Put(ctx, nil), graph.ErrThreadIDEmpty)
	assert.ErrorIs(t, saver.Put(ctx, &graph.Snapshot{}), graph.ErrThreadIDEmpty)
	assert.ErrorIs(t, saver.Delete(ctx, ""), graph.ErrThreadIDEmpty)
}

func TestCloseDropsState(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 1, "a", nil)))
	require.NoError(t, saver.Close())

	got, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
