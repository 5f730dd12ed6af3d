package encoder

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when transport bytes cannot be decoded
	// in the requested format
	ErrMalformed = errors.New("malformed encoding")
	// ErrWrongType is returned when a container or field holds a value
	// of a structurally invalid type
	ErrWrongType = errors.New("wrong value type")
	// ErrMissingField is returned when a required key or index is absent
	ErrMissingField = errors.New("missing field")
	// ErrUnsupportedFormat is returned when an encoder format tag is
	// not one of the supported formats
	ErrUnsupportedFormat = errors.New("unsupported encoder format")
)

// malformedError wraps a decoder failure so the caller can tell a
// transport-byte fault apart from structurally invalid nesting.
func malformedError(format Format, err error) error {
	return fmt.Errorf("%w: %s decode failed: %v", ErrMalformed, format, err)
}

// wrongTypeError reports a field holding an unexpected value type.
func wrongTypeError(where, want string, got any) error {
	return fmt.Errorf("%w: %s: expected %s, got %T", ErrWrongType, where, want, got)
}
