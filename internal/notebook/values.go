package notebook

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered JSON object.
type Map = orderedmap.OrderedMap[string, any]

// NewMap returns an empty ordered object.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// Keys returns the keys of m in insertion order.
func Keys(m *Map) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// CloneMap deep-copies m, including nested maps, arrays and cells.
func CloneMap(m *Map) *Map {
	if m == nil {
		return nil
	}
	out := NewMap()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, cloneValue(pair.Value))
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Map:
		return CloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case *Cell:
		return val.Clone()
	default:
		// string, json.Number, bool and nil are immutable.
		return val
	}
}

// StringValue returns m[key] when it is a string.
func StringValue(m *Map, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intValue reads an integral json.Number field.
func intValue(m *Map, key string) (int, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return int(n), true
}
