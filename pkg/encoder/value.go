package encoder

import (
	"bytes"
	"encoding/base64"
	"math"
)

// The closed value set for Object and Array members is {bool, int64,
// float64, string, []byte, *Object, *Array}. normalizeValue coerces
// the Go numeric types onto int64/float64 and rejects anything outside
// the set.
func normalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, wrongTypeError("value", "int64-representable integer", value)
		}
		return int64(v), nil
	case float32:
		return float64(v), nil
	case []byte:
		return bytes.Clone(v), nil
	case *Object:
		return v, nil
	case *Array:
		return v, nil
	default:
		return nil, wrongTypeError("value", "MSL value", value)
	}
}

// valueEqual compares two normalized values. A []byte and a string
// compare equal when the string is the Base64 encoding of the bytes,
// because text formats have no native binary representation and the
// reader cannot know which was written.
func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case float64:
			return float64(av) == bv
		}
		return false
	case float64:
		switch bv := b.(type) {
		case float64:
			return av == bv
		case int64:
			return av == float64(bv)
		}
		return false
	case string:
		switch bv := b.(type) {
		case string:
			return av == bv
		case []byte:
			return base64.StdEncoding.EncodeToString(bv) == av
		}
		return false
	case []byte:
		switch bv := b.(type) {
		case []byte:
			return bytes.Equal(av, bv)
		case string:
			return base64.StdEncoding.EncodeToString(av) == bv
		}
		return false
	case *Object:
		bv, ok := b.(*Object)
		return ok && av.Equal(bv)
	case *Array:
		bv, ok := b.(*Array)
		return ok && av.Equal(bv)
	default:
		return false
	}
}

// toBytes interprets a normalized value as a byte sequence, accepting
// native binary as-is and decoding Base64 text.
func toBytes(where string, value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return bytes.Clone(v), nil
	case string:
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, wrongTypeError(where, "byte sequence or Base64 text", value)
		}
		return decoded, nil
	default:
		return nil, wrongTypeError(where, "byte sequence", value)
	}
}
