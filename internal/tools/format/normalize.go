package format

import (
	"encoding/base64"
	"reflect"
	"strconv"
	"strings"
)

// jsonMarshaler and textMarshaler are matched structurally so the package-
// level jsoniter alias keeps its name.
type jsonMarshaler interface {
	MarshalJSON() ([]byte, error)
}

type textMarshaler interface {
	MarshalText() ([]byte, error)
}

// Normalize rebuilds a value into the canonical JSON shapes the truncator
// and chunker operate on: map[string]any, []any, string, float64, bool and
// nil. Typed structs, slices and maps from the API client are converted
// field by field honoring their json struct tags; time.Time and other
// Marshaler types keep their JSON form. A reference cycle is replaced with
// null, so normalization terminates on any input.
func Normalize(v any) any {
	return canonicalize(reflect.ValueOf(v), make(map[uintptr]struct{}))
}

// canonicalize converts one value. onPath holds the pointers of the maps,
// slices and pointers currently being rebuilt on this branch; revisiting one
// means a cycle.
func canonicalize(rv reflect.Value, onPath map[uintptr]struct{}) any {
	if !rv.IsValid() {
		return nil
	}

	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}

	// Marshaler-aware leaves keep the JSON form the serializer would emit.
	if rv.CanInterface() {
		switch m := rv.Interface().(type) {
		case jsonMarshaler:
			if data, err := m.MarshalJSON(); err == nil {
				var out any
				if json.Unmarshal(data, &out) == nil {
					return out
				}
			}
		case textMarshaler:
			if data, err := m.MarshalText(); err == nil {
				return string(data)
			}
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		return canonicalize(rv.Elem(), onPath)
	case reflect.Pointer:
		if id := rv.Pointer(); id != 0 {
			if _, ok := onPath[id]; ok {
				return nil
			}
			onPath[id] = struct{}{}
			defer delete(onPath, id)
		}
		return canonicalize(rv.Elem(), onPath)
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte serializes as base64, same as encoding/json.
			return base64.StdEncoding.EncodeToString(rv.Bytes())
		}
		if rv.Len() > 0 {
			if id := rv.Pointer(); id != 0 {
				if _, ok := onPath[id]; ok {
					return nil
				}
				onPath[id] = struct{}{}
				defer delete(onPath, id)
			}
		}
		return canonicalizeElems(rv, onPath)
	case reflect.Array:
		return canonicalizeElems(rv, onPath)
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		if rv.Len() > 0 {
			if id := rv.Pointer(); id != 0 {
				if _, ok := onPath[id]; ok {
					return nil
				}
				onPath[id] = struct{}{}
				defer delete(onPath, id)
			}
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKeyString(iter.Key())] = canonicalize(iter.Value(), onPath)
		}
		return out
	case reflect.Struct:
		return canonicalizeStruct(rv, onPath)
	default:
		// Channels, funcs, complex numbers: nothing serializable.
		return nil
	}
}

func canonicalizeElems(rv reflect.Value, onPath map[uintptr]struct{}) []any {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = canonicalize(rv.Index(i), onPath)
	}
	return out
}

func canonicalizeStruct(rv reflect.Value, onPath map[uintptr]struct{}) map[string]any {
	out := make(map[string]any)
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitempty, skip := fieldJSONName(field)
		value := rv.Field(i)

		// Untagged embedded structs flatten into the parent, as the
		// serializer would do.
		if field.Anonymous && field.Tag.Get("json") == "" {
			if nested, ok := canonicalize(value, onPath).(map[string]any); ok {
				for k, v := range nested {
					if _, exists := out[k]; !exists {
						out[k] = v
					}
				}
				continue
			}
		}

		if skip || (omitempty && isEmptyValue(value)) {
			continue
		}
		out[name] = canonicalize(value, onPath)
	}
	return out
}

// fieldJSONName resolves a struct field's serialized name from its json tag.
func fieldJSONName(field reflect.StructField) (name string, omitempty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = field.Name
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty, false
}

// isEmptyValue mirrors the serializer's omitempty test.
func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return rv.IsZero()
	}
	return false
}

// mapKeyString renders a map key the way it appears in a JSON object.
func mapKeyString(key reflect.Value) string {
	switch key.Kind() {
	case reflect.String:
		return key.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(key.Uint(), 10)
	default:
		if m, ok := key.Interface().(textMarshaler); ok {
			if data, err := m.MarshalText(); err == nil {
				return string(data)
			}
		}
		return ""
	}
}
