package capabilities

import (
	"fmt"
	"slices"
	"sort"

	"github.com/sirosfoundation/go-msl/pkg/compression"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// Capability wire keys.
const (
	wireKeyCompression = "compressionalgos"
	wireKeyLanguages   = "languages"
	wireKeyFormats     = "encoderformats"
)

// MessageCapabilities advertises what one party can do. Compression
// algorithms have set semantics and are kept canonically sorted;
// languages and encoder formats are ordered by descending preference.
// Immutable after construction.
type MessageCapabilities struct {
	compressionAlgorithms []compression.Algorithm
	languages             []string
	encoderFormats        []encoder.Format
}

// New builds a capability set. Compression algorithms are sorted and
// deduplicated; language and format lists keep their preference order
// with duplicates removed.
func New(algorithms []compression.Algorithm, languages []string, formats []encoder.Format) *MessageCapabilities {
	sortedAlgorithms := dedupe(algorithms)
	sort.Slice(sortedAlgorithms, func(i, j int) bool { return sortedAlgorithms[i] < sortedAlgorithms[j] })
	return &MessageCapabilities{
		compressionAlgorithms: sortedAlgorithms,
		languages:             dedupe(languages),
		encoderFormats:        dedupe(formats),
	}
}

// CompressionAlgorithms returns the supported algorithms in sorted
// order.
func (c *MessageCapabilities) CompressionAlgorithms() []compression.Algorithm {
	return slices.Clone(c.compressionAlgorithms)
}

// Languages returns the supported languages in preference order.
func (c *MessageCapabilities) Languages() []string {
	return slices.Clone(c.languages)
}

// EncoderFormats returns the supported encoder formats in preference
// order.
func (c *MessageCapabilities) EncoderFormats() []encoder.Format {
	return slices.Clone(c.encoderFormats)
}

// Equal reports whether both capability sets advertise the same
// options in the same order.
func (c *MessageCapabilities) Equal(other *MessageCapabilities) bool {
	if c == nil || other == nil {
		return c == other
	}
	return slices.Equal(c.compressionAlgorithms, other.compressionAlgorithms) &&
		slices.Equal(c.languages, other.languages) &&
		slices.Equal(c.encoderFormats, other.encoderFormats)
}

// Intersect computes the capabilities common to both parties. Returns
// nil when either input is nil: capabilities unknown on one side means
// nothing can be assumed about the intersection. The first argument's
// preference order wins for languages and formats.
func Intersect(a, b *MessageCapabilities) *MessageCapabilities {
	if a == nil || b == nil {
		return nil
	}
	return New(
		intersect(a.compressionAlgorithms, b.compressionAlgorithms),
		intersect(a.languages, b.languages),
		intersect(a.encoderFormats, b.encoderFormats),
	)
}

// Object renders the capability set as an encoder object with exactly
// the three capability keys.
func (c *MessageCapabilities) Object(enc *encoder.Factory) (*encoder.Object, error) {
	algorithms, err := stringArray(enc, c.compressionAlgorithms)
	if err != nil {
		return nil, err
	}
	languages, err := stringArray(enc, c.languages)
	if err != nil {
		return nil, err
	}
	formats, err := stringArray(enc, c.encoderFormats)
	if err != nil {
		return nil, err
	}

	obj := enc.CreateObject()
	if err := obj.Put(wireKeyCompression, algorithms); err != nil {
		return nil, err
	}
	if err := obj.Put(wireKeyLanguages, languages); err != nil {
		return nil, err
	}
	if err := obj.Put(wireKeyFormats, formats); err != nil {
		return nil, err
	}
	return obj, nil
}

// Encode serializes the capability set at the requested format.
func (c *MessageCapabilities) Encode(enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	obj, err := c.Object(enc)
	if err != nil {
		return nil, err
	}
	return enc.EncodeObject(obj, format)
}

// FromObject reconstructs capabilities from an encoder object.
// Missing members read as empty lists; unrecognized compression
// algorithms and encoder formats are dropped, since peers may
// advertise options from later protocol revisions.
func FromObject(obj *encoder.Object) (*MessageCapabilities, error) {
	algorithmNames, err := stringList(obj, wireKeyCompression)
	if err != nil {
		return nil, err
	}
	languages, err := stringList(obj, wireKeyLanguages)
	if err != nil {
		return nil, err
	}
	formatNames, err := stringList(obj, wireKeyFormats)
	if err != nil {
		return nil, err
	}

	var algorithms []compression.Algorithm
	for _, name := range algorithmNames {
		if a, ok := compression.ParseAlgorithm(name); ok {
			algorithms = append(algorithms, a)
		}
	}
	var formats []encoder.Format
	for _, name := range formatNames {
		if f, ok := encoder.ParseFormat(name); ok {
			formats = append(formats, f)
		}
	}
	return New(algorithms, languages, formats), nil
}

// Parse reconstructs capabilities from wire bytes.
func Parse(data []byte, enc *encoder.Factory, format encoder.Format) (*MessageCapabilities, error) {
	obj, err := enc.ParseObject(data, format)
	if err != nil {
		return nil, fmt.Errorf("message capabilities: %w", err)
	}
	return FromObject(obj)
}

func stringArray[T ~string](enc *encoder.Factory, values []T) (*encoder.Array, error) {
	seed := make([]any, len(values))
	for i, v := range values {
		seed[i] = string(v)
	}
	return enc.CreateArray(seed)
}

func stringList(obj *encoder.Object, key string) ([]string, error) {
	if !obj.Has(key) {
		return nil, nil
	}
	arr, err := obj.GetArray(key)
	if err != nil {
		return nil, fmt.Errorf("message capabilities %q: %w", key, err)
	}
	return arr.Strings(), nil
}

func dedupe[T comparable](values []T) []T {
	out := make([]T, 0, len(values))
	seen := make(map[T]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// intersect keeps the elements of a that also occur in b, preserving
// a's order.
func intersect[T comparable](a, b []T) []T {
	inB := make(map[T]bool, len(b))
	for _, v := range b {
		inB[v] = true
	}
	out := make([]T, 0, len(a))
	for _, v := range a {
		if inB[v] {
			out = append(out, v)
		}
	}
	return out
}
