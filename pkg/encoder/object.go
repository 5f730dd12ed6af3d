package encoder

import (
	"fmt"
	"sort"
)

// Object is the canonical MSL object: a mapping from string keys to
// values drawn from the closed MSL value set. Key uniqueness is
// enforced with last-write-wins semantics; insertion order carries no
// meaning.
type Object struct {
	values map[string]any
}

// NewObject creates an empty MSL object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Put stores a value under key. Values outside the MSL value set are
// rejected with ErrWrongType. Storing nil removes the key.
func (o *Object) Put(key string, value any) error {
	if value == nil {
		delete(o.values, key)
		return nil
	}
	normalized, err := normalizeValue(value)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	o.values[key] = normalized
	return nil
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Remove deletes key if present.
func (o *Object) Remove(key string) {
	delete(o.values, key)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.values)
}

// Keys returns the keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value stored under key.
func (o *Object) Get(key string) (any, error) {
	value, ok := o.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	return value, nil
}

// GetBool returns the boolean stored under key.
func (o *Object) GetBool(key string) (bool, error) {
	value, err := o.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, wrongTypeError(key, "bool", value)
	}
	return b, nil
}

// GetInt returns the integer stored under key. Integral floats are
// accepted because text formats do not distinguish the two.
func (o *Object) GetInt(key string) (int64, error) {
	value, err := o.Get(key)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case int64:
		return v, nil
	case float64:
		if v == float64(int64(v)) {
			return int64(v), nil
		}
	}
	return 0, wrongTypeError(key, "integer", value)
}

// GetFloat returns the number stored under key as a float64.
func (o *Object) GetFloat(key string) (float64, error) {
	value, err := o.Get(key)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	return 0, wrongTypeError(key, "number", value)
}

// GetString returns the string stored under key.
func (o *Object) GetString(key string) (string, error) {
	value, err := o.Get(key)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", wrongTypeError(key, "string", value)
	}
	return s, nil
}

// GetBytes returns the byte sequence stored under key. A native byte
// sequence is returned as-is; Base64 text is decoded, so a field that
// may arrive in either representation reads the same way.
func (o *Object) GetBytes(key string) ([]byte, error) {
	value, err := o.Get(key)
	if err != nil {
		return nil, err
	}
	return toBytes(key, value)
}

// GetObject returns the nested object stored under key.
func (o *Object) GetObject(key string) (*Object, error) {
	value, err := o.Get(key)
	if err != nil {
		return nil, err
	}
	nested, ok := value.(*Object)
	if !ok {
		return nil, wrongTypeError(key, "object", value)
	}
	return nested, nil
}

// GetArray returns the nested array stored under key.
func (o *Object) GetArray(key string) (*Array, error) {
	value, err := o.Get(key)
	if err != nil {
		return nil, err
	}
	nested, ok := value.(*Array)
	if !ok {
		return nil, wrongTypeError(key, "array", value)
	}
	return nested, nil
}

// OptString returns the string under key, or def when the key is
// absent or holds a different type.
func (o *Object) OptString(key, def string) string {
	if s, err := o.GetString(key); err == nil {
		return s
	}
	return def
}

// OptInt returns the integer under key, or def when the key is absent
// or holds a different type.
func (o *Object) OptInt(key string, def int64) int64 {
	if n, err := o.GetInt(key); err == nil {
		return n
	}
	return def
}

// OptBool returns the boolean under key, or def when the key is
// absent or holds a different type.
func (o *Object) OptBool(key string, def bool) bool {
	if b, err := o.GetBool(key); err == nil {
		return b
	}
	return def
}

// Equal reports deep equality with other. Byte sequences compare
// equal to their Base64 text representation so that values survive a
// text-format round trip.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.values) != len(other.values) {
		return false
	}
	for key, value := range o.values {
		otherValue, ok := other.values[key]
		if !ok || !valueEqual(value, otherValue) {
			return false
		}
	}
	return true
}
