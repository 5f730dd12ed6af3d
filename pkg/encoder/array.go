package encoder

import "fmt"

// Array is the canonical MSL array: an ordered, zero-indexed sequence
// of values drawn from the closed MSL value set. Unset slots created
// by growth hold null.
type Array struct {
	values []any
}

// NewArray creates an MSL array seeded with the given values.
func NewArray(seed []any) (*Array, error) {
	a := &Array{values: make([]any, 0, len(seed))}
	for i, value := range seed {
		normalized, err := normalizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("seed index %d: %w", i, err)
		}
		a.values = append(a.values, normalized)
	}
	return a, nil
}

// Append adds a value at the end of the array.
func (a *Array) Append(value any) error {
	normalized, err := normalizeValue(value)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	a.values = append(a.values, normalized)
	return nil
}

// Put stores a value at index, growing the array with null-filled
// slots when index is beyond the current length. Negative indexes are
// rejected.
func (a *Array) Put(index int, value any) error {
	if index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrWrongType, index)
	}
	normalized, err := normalizeValue(value)
	if err != nil {
		return fmt.Errorf("put index %d: %w", index, err)
	}
	for len(a.values) <= index {
		a.values = append(a.values, nil)
	}
	a.values[index] = normalized
	return nil
}

// Len returns the number of slots, null slots included.
func (a *Array) Len() int {
	return len(a.values)
}

// Get returns the raw value at index.
func (a *Array) Get(index int) (any, error) {
	if index < 0 || index >= len(a.values) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrMissingField, index, len(a.values))
	}
	return a.values[index], nil
}

// IsNull reports whether the slot at index holds null.
func (a *Array) IsNull(index int) bool {
	if index < 0 || index >= len(a.values) {
		return true
	}
	return a.values[index] == nil
}

// GetBool returns the boolean at index.
func (a *Array) GetBool(index int) (bool, error) {
	value, err := a.Get(index)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, wrongTypeError(fmt.Sprintf("index %d", index), "bool", value)
	}
	return b, nil
}

// GetInt returns the integer at index.
func (a *Array) GetInt(index int) (int64, error) {
	value, err := a.Get(index)
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
	return 0, wrongTypeError(fmt.Sprintf("index %d", index), "integer", value)
}

// GetString returns the string at index.
func (a *Array) GetString(index int) (string, error) {
	value, err := a.Get(index)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", wrongTypeError(fmt.Sprintf("index %d", index), "string", value)
	}
	return s, nil
}

// GetBytes returns the byte sequence at index, accepting native
// binary as-is and decoding Base64 text.
func (a *Array) GetBytes(index int) ([]byte, error) {
	value, err := a.Get(index)
	if err != nil {
		return nil, err
	}
	return toBytes(fmt.Sprintf("index %d", index), value)
}

// GetObject returns the nested object at index.
func (a *Array) GetObject(index int) (*Object, error) {
	value, err := a.Get(index)
	if err != nil {
		return nil, err
	}
	nested, ok := value.(*Object)
	if !ok {
		return nil, wrongTypeError(fmt.Sprintf("index %d", index), "object", value)
	}
	return nested, nil
}

// GetArray returns the nested array at index.
func (a *Array) GetArray(index int) (*Array, error) {
	value, err := a.Get(index)
	if err != nil {
		return nil, err
	}
	nested, ok := value.(*Array)
	if !ok {
		return nil, wrongTypeError(fmt.Sprintf("index %d", index), "array", value)
	}
	return nested, nil
}

// Strings returns the array as a string slice, skipping entries that
// are not strings. Used for advisory lists where non-string entries
// are dropped rather than rejected.
func (a *Array) Strings() []string {
	out := make([]string, 0, len(a.values))
	for _, value := range a.values {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Equal reports deep equality with other, with the same byte/Base64
// equivalence as Object.Equal.
func (a *Array) Equal(other *Array) bool {
	if a == nil || other == nil {
		return a == other
	}
	if len(a.values) != len(other.values) {
		return false
	}
	for i, value := range a.values {
		if !valueEqual(value, other.values[i]) {
			return false
		}
	}
	return true
}
