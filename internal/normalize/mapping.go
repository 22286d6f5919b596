package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Field is one key/value pair of a Mapping.
type Field struct {
	Key   string
	Value any
}

// Mapping is an insertion-ordered string-keyed map. Alias search walks keys
// in document order, so plain Go maps are converted on entry.
//
// Values are string, json.Number, float64, bool, nil, Mapping or []any.
type Mapping []Field

// Get returns the value stored under key.
func (m Mapping) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present, whatever its value.
func (m Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set replaces the value under key, appending the key when new.
func (m *Mapping) Set(key string, value any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Field{Key: key, Value: value})
}

// Sub returns the nested mapping under key, or nil when absent or not a mapping.
func (m Mapping) Sub(key string) Mapping {
	v, _ := m.Get(key)
	sub, _ := v.(Mapping)
	return sub
}

// Keys returns the keys in order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m))
	for i, f := range m {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the fields in order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FromMap converts a Go map into a Mapping. Go maps carry no order, so keys
// are sorted to keep the alias search deterministic.
func FromMap(in map[string]any) Mapping {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Mapping, 0, len(in))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: fromValue(in[k])})
	}
	return out
}

func fromValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return FromMap(m)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = fromValue(t[i])
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = FromMap(t[i])
		}
		return out
	default:
		return v
	}
}
