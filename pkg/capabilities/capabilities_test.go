package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-msl/pkg/compression"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

func TestNewSortsAndDedupes(t *testing.T) {
	caps := New(
		[]compression.Algorithm{compression.AlgorithmLZW, compression.AlgorithmGZIP, compression.AlgorithmLZW},
		[]string{"en-US", "de", "en-US"},
		[]encoder.Format{encoder.FormatJSON, encoder.FormatCBOR, encoder.FormatJSON},
	)

	assert.Equal(t, []compression.Algorithm{compression.AlgorithmGZIP, compression.AlgorithmLZW},
		caps.CompressionAlgorithms(), "compression algorithms are a sorted set")
	assert.Equal(t, []string{"en-US", "de"}, caps.Languages(),
		"languages keep preference order")
	assert.Equal(t, []encoder.Format{encoder.FormatJSON, encoder.FormatCBOR}, caps.EncoderFormats(),
		"formats keep preference order")
}

func TestIntersect(t *testing.T) {
	a := New(
		[]compression.Algorithm{compression.AlgorithmGZIP, compression.AlgorithmLZW},
		[]string{"en-US", "de", "fr"},
		[]encoder.Format{encoder.FormatJSON, encoder.FormatCBOR},
	)
	b := New(
		[]compression.Algorithm{compression.AlgorithmLZW},
		[]string{"fr", "en-US"},
		[]encoder.Format{encoder.FormatCBOR, encoder.FormatJSON},
	)

	common := Intersect(a, b)
	require.NotNil(t, common)
	assert.Equal(t, []compression.Algorithm{compression.AlgorithmLZW}, common.CompressionAlgorithms())
	assert.Equal(t, []string{"en-US", "fr"}, common.Languages(),
		"first argument's preference order wins")
	assert.Equal(t, []encoder.Format{encoder.FormatJSON, encoder.FormatCBOR}, common.EncoderFormats())
}

func TestIntersectNil(t *testing.T) {
	caps := New(nil, nil, nil)

	assert.Nil(t, Intersect(nil, caps))
	assert.Nil(t, Intersect(caps, nil))
	assert.Nil(t, Intersect(nil, nil))
}

func TestIntersectDisjoint(t *testing.T) {
	a := New([]compression.Algorithm{compression.AlgorithmGZIP}, []string{"en"}, []encoder.Format{encoder.FormatJSON})
	b := New([]compression.Algorithm{compression.AlgorithmLZW}, []string{"ja"}, []encoder.Format{encoder.FormatCBOR})

	common := Intersect(a, b)
	require.NotNil(t, common, "disjoint capabilities intersect to empty, not nil")
	assert.Empty(t, common.CompressionAlgorithms())
	assert.Empty(t, common.Languages())
	assert.Empty(t, common.EncoderFormats())
}

func TestWireRoundTrip(t *testing.T) {
	enc := encoder.NewFactory()
	caps := New(
		[]compression.Algorithm{compression.AlgorithmGZIP, compression.AlgorithmLZW},
		[]string{"en-US", "de"},
		[]encoder.Format{encoder.FormatCBOR, encoder.FormatJSON},
	)

	for _, format := range encoder.Formats() {
		data, err := caps.Encode(enc, format)
		require.NoError(t, err, format)

		parsed, err := Parse(data, enc, format)
		require.NoError(t, err, format)
		assert.True(t, caps.Equal(parsed), "%s: round trip changed capabilities", format)
	}
}

// Advertisements from newer protocol revisions carry entries this
// process does not implement; they are dropped, not rejected.
func TestParseDropsUnknownEntries(t *testing.T) {
	enc := encoder.NewFactory()

	obj := enc.CreateObject()
	algorithms, err := enc.CreateArray([]any{"GZIP", "BROTLI"})
	require.NoError(t, err)
	languages, err := enc.CreateArray([]any{"en"})
	require.NoError(t, err)
	formats, err := enc.CreateArray([]any{"JSON", "PROTOBUF"})
	require.NoError(t, err)
	require.NoError(t, obj.Put(wireKeyCompression, algorithms))
	require.NoError(t, obj.Put(wireKeyLanguages, languages))
	require.NoError(t, obj.Put(wireKeyFormats, formats))
	data, err := enc.EncodeObject(obj, encoder.FormatJSON)
	require.NoError(t, err)

	caps, err := Parse(data, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []compression.Algorithm{compression.AlgorithmGZIP}, caps.CompressionAlgorithms())
	assert.Equal(t, []string{"en"}, caps.Languages())
	assert.Equal(t, []encoder.Format{encoder.FormatJSON}, caps.EncoderFormats())
}

func TestParseMissingMembers(t *testing.T) {
	enc := encoder.NewFactory()

	data, err := enc.EncodeObject(enc.CreateObject(), encoder.FormatJSON)
	require.NoError(t, err)

	caps, err := Parse(data, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, caps.CompressionAlgorithms())
	assert.Empty(t, caps.Languages())
	assert.Empty(t, caps.EncoderFormats())
}

func TestParseMalformed(t *testing.T) {
	enc := encoder.NewFactory()

	_, err := Parse([]byte("garbage"), enc, encoder.FormatJSON)
	require.ErrorIs(t, err, encoder.ErrMalformed)
}

func TestEqual(t *testing.T) {
	a := New([]compression.Algorithm{compression.AlgorithmGZIP}, []string{"en"}, nil)
	b := New([]compression.Algorithm{compression.AlgorithmGZIP}, []string{"en"}, nil)
	c := New([]compression.Algorithm{compression.AlgorithmGZIP}, []string{"de"}, nil)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
