package encoder

import (
	"encoding/json"
	"math"
)

// exportValue lowers a normalized MSL value tree onto plain Go maps
// and slices for the underlying codec. Byte sequences stay []byte;
// the JSON codec renders them as Base64, the CBOR codec natively.
func exportValue(value any) any {
	switch v := value.(type) {
	case *Object:
		out := make(map[string]any, len(v.values))
		for key, member := range v.values {
			out[key] = exportValue(member)
		}
		return out
	case *Array:
		out := make([]any, len(v.values))
		for i, member := range v.values {
			out[i] = exportValue(member)
		}
		return out
	default:
		return value
	}
}

// importValue lifts a codec-decoded value into the normalized MSL
// value set: maps become Objects, slices become Arrays, and the
// codec's numeric types collapse onto int64/float64.
func importValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool, string, int64, float64, []byte:
		return v, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, wrongTypeError("number", "int64 or float64", value)
		}
		return f, nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, wrongTypeError("number", "int64-representable integer", value)
		}
		return int64(v), nil
	case float32:
		return float64(v), nil
	case map[string]any:
		obj := NewObject()
		for key, member := range v {
			imported, err := importValue(member)
			if err != nil {
				return nil, err
			}
			if imported == nil {
				continue
			}
			obj.values[key] = imported
		}
		return obj, nil
	case []any:
		arr := &Array{values: make([]any, len(v))}
		for i, member := range v {
			imported, err := importValue(member)
			if err != nil {
				return nil, err
			}
			arr.values[i] = imported
		}
		return arr, nil
	default:
		return nil, wrongTypeError("decoded value", "MSL value", value)
	}
}
