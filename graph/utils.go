//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"reflect"
	"time"
)

// deepCopyAny performs a deep copy of common JSON-serializable Go types to
// avoid sharing mutable references (maps/slices) between a running execution
// and its snapshots.
func deepCopyAny(value any) any {
	if out, ok := deepCopyFastPath(value); ok {
		return out
	}
	return deepCopyReflect(reflect.ValueOf(value))
}

// deepCopyFastPath handles common JSON-friendly types without reflection.
func deepCopyFastPath(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case string, bool, int, int32, int64, float32, float64:
		return v, true
	case map[string]any:
		copied := make(map[string]any, len(v))
		for k, vv := range v {
			copied[k] = deepCopyAny(vv)
		}
		return copied, true
	case []any:
		copied := make([]any, len(v))
		for i := range v {
			copied[i] = deepCopyAny(v[i])
		}
		return copied, true
	case []string:
		copied := make([]string, len(v))
		copy(copied, v)
		return copied, true
	case []int:
		copied := make([]int, len(v))
		copy(copied, v)
		return copied, true
	case []float64:
		copied := make([]float64, len(v))
		copy(copied, v)
		return copied, true
	case time.Time:
		return v, true
	}
	return nil, false
}

// deepCopyReflect copies maps and slices via reflection. Other kinds
// (structs, pointers, funcs) are returned as-is: channel values are opaque to
// the engine and reducers are required to treat them as immutable.
func deepCopyReflect(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v.Interface()
		}
		copied := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			cv := deepCopyAny(iter.Value().Interface())
			if cv == nil {
				copied.SetMapIndex(iter.Key(), reflect.Zero(v.Type().Elem()))
				continue
			}
			copied.SetMapIndex(iter.Key(), reflect.ValueOf(cv))
		}
		return copied.Interface()
	case reflect.Slice:
		if v.IsNil() {
			return v.Interface()
		}
		copied := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(copied, v)
		return copied.Interface()
	default:
		return v.Interface()
	}
}
