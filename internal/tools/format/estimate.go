package format

import (
	"reflect"
)

// Per-type costs for the size estimate. Strings cost two bytes per UTF-16
// code unit, matching the wire cost of the protocol's text encoding.
const (
	costNull            = 4
	costBool            = 4
	costNumber          = 8
	costCompositeHeader = 8
)

// EstimateSize returns a cheap approximation of a value's serialized size
// in bytes, without building the serialized form. It is an admission check
// only: the formatter always double-checks via serialization or chunking
// when the estimate is ambiguous.
//
// Shared substructure is intentionally under-counted: a composite reached
// twice through different paths contributes its cost once. Cyclic values
// are safe and terminate in one pass over the reachable nodes.
func EstimateSize(v any) int {
	size, _ := estimateSize(v)
	return size
}

// estimateSize reports the approximate size and whether a reference cycle
// (or any repeated composite) was encountered during the traversal. The
// formatter uses the cycle signal to skip the serialize-and-measure
// confirmation, which would not terminate on cyclic input.
func estimateSize(root any) (size int, sawRepeat bool) {
	visited := make(map[uintptr]struct{})
	stack := []any{root}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch val := v.(type) {
		case nil:
			size += costNull
		case bool:
			size += costBool
		case string:
			size += 2 * utf16Length(val)
		case float64, float32, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
			size += costNumber
		case []any:
			if len(val) == 0 {
				size += costCompositeHeader
				continue
			}
			// A repeat visit contributes nothing: shared substructure is
			// deliberately under-counted and cycles terminate.
			if id := reflect.ValueOf(val).Pointer(); id != 0 {
				if _, ok := visited[id]; ok {
					sawRepeat = true
					continue
				}
				visited[id] = struct{}{}
			}
			size += costCompositeHeader
			for _, elem := range val {
				stack = append(stack, elem)
			}
		case map[string]any:
			if len(val) == 0 {
				size += costCompositeHeader
				continue
			}
			if id := reflect.ValueOf(val).Pointer(); id != 0 {
				if _, ok := visited[id]; ok {
					sawRepeat = true
					continue
				}
				visited[id] = struct{}{}
			}
			size += costCompositeHeader
			for key, elem := range val {
				size += 2 * utf16Length(key)
				stack = append(stack, elem)
			}
		default:
			s, repeat := estimateReflect(reflect.ValueOf(v), visited, &stack)
			size += s
			sawRepeat = sawRepeat || repeat
		}
	}

	return size, sawRepeat
}

// estimateReflect handles values outside the canonical JSON shapes, such as
// typed slices, typed maps and structs produced by API clients.
func estimateReflect(rv reflect.Value, visited map[uintptr]struct{}, stack *[]any) (size int, sawRepeat bool) {
	switch rv.Kind() {
	case reflect.Invalid:
		return costNull, false
	case reflect.Bool:
		return costBool, false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return costNumber, false
	case reflect.String:
		return 2 * utf16Length(rv.String()), false
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return costNull, false
		}
		if rv.Kind() == reflect.Pointer {
			if id := rv.Pointer(); id != 0 {
				if _, ok := visited[id]; ok {
					return 0, true
				}
				visited[id] = struct{}{}
			}
		}
		*stack = append(*stack, rv.Elem().Interface())
		return 0, false
	case reflect.Slice:
		if rv.IsNil() {
			return costNull, false
		}
		if rv.Len() > 0 {
			if id := rv.Pointer(); id != 0 {
				if _, ok := visited[id]; ok {
					return 0, true
				}
				visited[id] = struct{}{}
			}
		}
		fallthrough
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			*stack = append(*stack, rv.Index(i).Interface())
		}
		return costCompositeHeader, false
	case reflect.Map:
		if rv.IsNil() {
			return costNull, false
		}
		if rv.Len() > 0 {
			if id := rv.Pointer(); id != 0 {
				if _, ok := visited[id]; ok {
					return 0, true
				}
				visited[id] = struct{}{}
			}
		}
		size = costCompositeHeader
		iter := rv.MapRange()
		for iter.Next() {
			if iter.Key().Kind() == reflect.String {
				size += 2 * utf16Length(iter.Key().String())
			} else {
				size += costNumber
			}
			*stack = append(*stack, iter.Value().Interface())
		}
		return size, false
	case reflect.Struct:
		size = costCompositeHeader
		t := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			size += 2 * utf16Length(t.Field(i).Name)
			*stack = append(*stack, rv.Field(i).Interface())
		}
		return size, false
	default:
		// Channels, funcs and the like do not serialize; count a scalar.
		return costNumber, false
	}
}

// utf16Length returns the number of UTF-16 code units needed for s.
// Runes outside the basic multilingual plane need a surrogate pair.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
