package encoder

import "fmt"

// Factory creates MSL containers and performs format-tagged
// serialization. A Factory holds no state and is safe for concurrent
// use; independent encode and decode calls are fully independent.
type Factory struct{}

// NewFactory creates an encoder factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateObject creates an empty MSL object.
func (f *Factory) CreateObject() *Object {
	return NewObject()
}

// CreateArray creates an MSL array seeded with the given values.
func (f *Factory) CreateArray(seed []any) (*Array, error) {
	return NewArray(seed)
}

// EncodeObject serializes an object in the given format.
func (f *Factory) EncodeObject(obj *Object, format Format) ([]byte, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: nil object", ErrWrongType)
	}
	return encode(obj, format)
}

// EncodeArray serializes an array in the given format.
func (f *Factory) EncodeArray(arr *Array, format Format) ([]byte, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrWrongType)
	}
	return encode(arr, format)
}

// ParseObject deserializes an object from bytes in the given format.
// An array at the top level is a structural fault, not a transport
// fault.
func (f *Factory) ParseObject(data []byte, format Format) (*Object, error) {
	value, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(*Object)
	if !ok {
		return nil, wrongTypeError("root", "object", value)
	}
	return obj, nil
}

// ParseArray deserializes an array from bytes in the given format.
func (f *Factory) ParseArray(data []byte, format Format) (*Array, error) {
	value, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	arr, ok := value.(*Array)
	if !ok {
		return nil, wrongTypeError("root", "array", value)
	}
	return arr, nil
}

func encode(root any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return encodeJSON(root)
	case FormatCBOR:
		return encodeCBOR(root)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func parse(data []byte, format Format) (any, error) {
	var raw any
	var err error
	switch format {
	case FormatJSON:
		raw, err = decodeJSON(data)
	case FormatCBOR:
		raw, err = decodeCBOR(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return importValue(raw)
}
