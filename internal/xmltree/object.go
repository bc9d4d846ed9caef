package xmltree

import (
	"bytes"
	"encoding/json"
)

// TextKey is the field holding element text when the element also has
// attributes or children.
const TextKey = "_"

// Object is a JSON object that remembers key insertion order.
// The zero value is not usable; create objects with NewObject.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores value under key. A new key is appended to the key order,
// an existing key keeps its position.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// prepend stores value under a key that must not exist yet, placing it first.
func (o *Object) prepend(key string, value any) {
	o.keys = append([]string{key}, o.keys...)
	o.values[key] = value
}

// add stores value under key, turning the field into an array when the
// key is already present.
func (o *Object) add(key string, value any) {
	existing, ok := o.values[key]
	if !ok {
		o.Set(key, value)
		return
	}
	list, isList := existing.([]any)
	if !isList {
		list = []any{existing}
	}
	o.values[key] = append(list, value)
}

// Path walks nested objects following keys and returns the value found.
func (o *Object) Path(keys ...string) (any, bool) {
	var cur any = o
	for _, key := range keys {
		obj, ok := cur.(*Object)
		if !ok || obj == nil {
			return nil, false
		}
		cur, ok = obj.Get(key)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// MarshalJSON writes the object with keys in insertion order.
// HTML characters are not escaped.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalValue(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := marshalValue(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue encodes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Plain converts a tree into map[string]any / []any / string values,
// dropping key order. It is mainly useful for comparisons.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for _, key := range t.keys {
			m[key] = Plain(t.values[key])
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Plain(item)
		}
		return out
	default:
		return v
	}
}
