//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeepCopyScalars(t *testing.T) {
	assert.Nil(t, deepCopyAny(nil))
	assert.Equal(t, 42, deepCopyAny(42))
	assert.Equal(t, "x", deepCopyAny("x"))
	assert.Equal(t, true, deepCopyAny(true))
	now := time.Now()
	assert.Equal(t, now, deepCopyAny(now))
}

func TestDeepCopyNestedContainers(t *testing.T) {
	original := map[string]any{
		"list":   []any{1, "two", []any{3}},
		"nested": map[string]any{"k": "v"},
		"null":   nil,
	}
	copied := deepCopyAny(original).(map[string]any)
	assert.Equal(t, original, copied)

	copied["nested"].(map[string]any)["k"] = "changed"
	copied["list"].([]any)[2].([]any)[0] = 99
	assert.Equal(t, "v", original["nested"].(map[string]any)["k"])
	assert.Equal(t, 3, original["list"].([]any)[2].([]any)[0])
}

func TestDeepCopyTypedSlices(t *testing.T) {
	strs := []string{"a", "b"}
	copiedStrs := deepCopyAny(strs).([]string)
	copiedStrs[0] = "z"
	assert.Equal(t, []string{"a", "b"}, strs)

	ints := []int{1, 2}
	copiedInts := deepCopyAny(ints).([]int)
	copiedInts[0] = 9
	assert.Equal(t, []int{1, 2}, ints)
}

func TestDeepCopyReflectedTypes(t *testing.T) {
	typed := map[string]int{"a": 1}
	copied := deepCopyAny(typed).(map[string]int)
	copied["a"] = 9
	assert.Equal(t, 1, typed["a"])

	floats := []float32{1.5}
	copiedFloats := deepCopyAny(floats).([]float32)
	copiedFloats[0] = 9
	assert.Equal(t, []float32{1.5}, floats)
}

func TestDeepCopyOpaqueValuePassesThrough(t *testing.T) {
	type opaque struct{ N int }
	v := opaque{N: 1}
	assert.Equal(t, v, deepCopyAny(v))
}
