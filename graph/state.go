//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"fmt"
	"reflect"
	"sync"
)

// State represents the state that flows through the graph.
// It maps channel names to their current values.
type State map[string]any

// Clone creates a shallow copy of the state.
// Channel values are shared; reducers must treat them as immutable.
func (s State) Clone() State {
	clone := make(State, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Reducer determines how a channel update is merged into the current value.
// It takes the existing and incoming values and returns the merged result.
// Reducers must be pure and must tolerate existing being the channel default.
type Reducer func(existing, update any) any

// Channel defines a named slot of the shared state: a value type, a merge
// function and a default-value producer.
type Channel struct {
	Type    reflect.Type
	Reducer Reducer
	Default func() any
}

// Schema declares the channels of a graph and performs all state merging.
// Channels are declared at build time and immutable afterwards.
type Schema struct {
	mu       sync.RWMutex
	Channels map[string]Channel
}

// NewSchema creates an empty state schema.
func NewSchema() *Schema {
	return &Schema{
		Channels: make(map[string]Channel),
	}
}

// AddChannel declares a channel. A nil reducer defaults to OverrideReducer.
func (s *Schema) AddChannel(name string, ch Channel) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch.Reducer == nil {
		ch.Reducer = OverrideReducer
	}
	s.Channels[name] = ch
	return s
}

// InitialState produces the starting state of a run: every channel default is
// applied first, then the caller-supplied input is merged through the
// channel reducers.
func (s *Schema) InitialState(input State) State {
	s.mu.RLock()
	state := make(State, len(s.Channels))
	for name, ch := range s.Channels {
		if ch.Default != nil {
			state[name] = ch.Default()
		}
	}
	s.mu.RUnlock()
	return s.ApplyUpdate(state, input)
}

// ApplyUpdate merges a partial state update into the current state using the
// declared reducers. Keys absent from the update are left unchanged; keys
// without a channel declaration are overridden.
func (s *Schema) ApplyUpdate(current State, update State) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := current.Clone()
	for key, updateValue := range update {
		ch, exists := s.Channels[key]
		if !exists {
			result[key] = updateValue
			continue
		}
		currentValue, hasCurrentValue := result[key]
		if !hasCurrentValue && ch.Default != nil {
			currentValue = ch.Default()
		}
		result[key] = ch.Reducer(currentValue, updateValue)
	}
	return result
}

// Validate checks a state against the declared channel types.
func (s *Schema) Validate(state State) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, ch := range s.Channels {
		value, exists := state[name]
		if !exists || value == nil || ch.Type == nil {
			continue
		}
		valueType := reflect.TypeOf(value)
		if !valueType.AssignableTo(ch.Type) {
			return fmt.Errorf("channel %s has wrong type: expected %v, got %v",
				name, ch.Type, valueType)
		}
	}
	return nil
}

// Common reducer functions.

// OverrideReducer overwrites the existing value with the update.
func OverrideReducer(existing, update any) any {
	return update
}

// AppendReducer appends update to the existing []any slice.
func AppendReducer(existing, update any) any {
	if existing == nil {
		existing = []any{}
	}
	existingSlice, ok1 := existing.([]any)
	updateSlice, ok2 := update.([]any)
	if !ok1 || !ok2 {
		return update
	}
	merged := make([]any, 0, len(existingSlice)+len(updateSlice))
	merged = append(merged, existingSlice...)
	return append(merged, updateSlice...)
}

// StringSliceReducer appends string slices specifically.
func StringSliceReducer(existing, update any) any {
	if existing == nil {
		existing = []string{}
	}
	existingSlice, ok1 := existing.([]string)
	updateSlice, ok2 := update.([]string)
	if !ok1 || !ok2 {
		return update
	}
	merged := make([]string, 0, len(existingSlice)+len(updateSlice))
	merged = append(merged, existingSlice...)
	return append(merged, updateSlice...)
}

// MergeReducer merges an update map into the existing map.
func MergeReducer(existing, update any) any {
	if existing == nil {
		existing = make(map[string]any)
	}
	existingMap, ok1 := existing.(map[string]any)
	updateMap, ok2 := update.(map[string]any)
	if !ok1 || !ok2 {
		return update
	}
	result := make(map[string]any, len(existingMap)+len(updateMap))
	for k, v := range existingMap {
		result[k] = v
	}
	for k, v := range updateMap {
		result[k] = v
	}
	return result
}
