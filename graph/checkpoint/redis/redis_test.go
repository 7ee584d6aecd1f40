//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/graph"
)

func newTestSaver(t *testing.T, opts ...Option) (*Saver, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: server.Addr()})
	saver := NewFromClient(client, opts...)
	t.Cleanup(func() { saver.Close() })
	return saver, server
}

func TestPutGetRoundTrip(t *testing.T) {
	saver, _ := newTestSaver(t)
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
	// Numbers come back as float64 after the JSON round trip.
	assert.Equal(t, float64(3), got.State["count"])
	assert.Equal(t, "draft", got.State["stage"])
}

func TestGetMissingThread(t *testing.T) {
	saver, _ := newTestSaver(t)
	got, err := saver.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutReplacesPrevious(t *testing.T) {
	saver, _ := newTestSaver(t)
	ctx := context.Background()

	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 1, "a", nil)))
	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 2, "b", nil)))

	got, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Step)
	assert.Equal(t, "b", got.NodeID)
}

func TestListAndDelete(t *testing.T) {
	saver, _ := newTestSaver(t)
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

func TestKeyPrefix(t *testing.T) {
	saver, server := newTestSaver(t, WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 1, "a", nil)))
	assert.True(t, server.Exists("custom:t1"))
	assert.True(t, server.Exists("custom:index"))
}

func TestTTLExpiresSnapshot(t *testing.T) {
	saver, server := newTestSaver(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, saver.Put(ctx, graph.NewSnapshot("t1", 1, "a", nil)))
	server.FastForward(2 * time.Minute)

	got, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmptyThreadIDRejected(t *testing.T) {
	saver, _ := newTestSaver(t)
	ctx := context.Background()

	_, err := saver.Get(ctx, "")
	assert.ErrorIs(t, err, graph.ErrThreadIDEmpty)
	assert.ErrorIs(t, saver.Put(ctx, nil), graph.ErrThreadIDEmpty)
	assert.ErrorIs(t, saver.Delete(ctx, ""), graph.ErrThreadIDEmpty)
}
