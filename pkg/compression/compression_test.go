package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressor_CompressDecompress(t *testing.T) {
	compressor := NewCompressor()

	// Use sufficiently large data for compression to be effective;
	// both formats carry fixed overhead on small inputs.
	repeated := "This is test data that should be compressed. It contains repeated text. "
	testData := []byte(repeated + repeated + repeated + repeated + repeated)

	for _, algorithm := range []Algorithm{AlgorithmGZIP, AlgorithmLZW} {
		t.Run(string(algorithm), func(t *testing.T) {
			compressed, err := compressor.Compress(algorithm, testData)
			require.NoError(t, err)
			assert.NotEmpty(t, compressed)
			assert.Less(t, len(compressed), len(testData))

			decompressed, err := compressor.Decompress(algorithm, compressed)
			require.NoError(t, err)
			assert.Equal(t, testData, decompressed)
		})
	}
}

func TestCompressor_EmptyData(t *testing.T) {
	compressor := NewCompressor()

	for _, algorithm := range []Algorithm{AlgorithmGZIP, AlgorithmLZW} {
		compressed, err := compressor.Compress(algorithm, []byte{})
		require.NoError(t, err)

		decompressed, err := compressor.Decompress(algorithm, compressed)
		require.NoError(t, err)
		assert.Empty(t, decompressed)
	}
}

func TestCompressor_LargeData(t *testing.T) {
	compressor := NewCompressor()

	// 1MB of repeated pattern compresses very well
	largeData := bytes.Repeat([]byte("test data "), 100000)

	compressed, err := compressor.Compress(AlgorithmGZIP, largeData)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(largeData)/10, "Compressed size should be much smaller than original for repeated data")

	decompressed, err := compressor.Decompress(AlgorithmGZIP, compressed)
	require.NoError(t, err)
	assert.Equal(t, largeData, decompressed)
}

func TestCompressor_UnsupportedAlgorithm(t *testing.T) {
	compressor := NewCompressor()

	_, err := compressor.Compress(Algorithm("BROTLI"), []byte("data"))
	require.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = compressor.Decompress(Algorithm("BROTLI"), []byte("data"))
	require.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestCompressor_DecompressGarbage(t *testing.T) {
	compressor := NewCompressor()

	_, err := compressor.Decompress(AlgorithmGZIP, []byte("not gzip"))
	assert.Error(t, err)
}

func TestParseAlgorithm(t *testing.T) {
	algorithm, ok := ParseAlgorithm("GZIP")
	require.True(t, ok)
	assert.Equal(t, AlgorithmGZIP, algorithm)

	algorithm, ok = ParseAlgorithm("LZW")
	require.True(t, ok)
	assert.Equal(t, AlgorithmLZW, algorithm)

	_, ok = ParseAlgorithm("gzip")
	assert.False(t, ok, "algorithm names are case sensitive")
	_, ok = ParseAlgorithm("ZSTD")
	assert.False(t, ok)
}
