// Package compression implements GZIP and LZW payload compression
package compression

import (
	"bytes"
	"compress/gzip"
	"compress/lzw"
	"errors"
	"fmt"
	"io"
)

// Algorithm names a payload compression algorithm as it appears in
// capability negotiation.
type Algorithm string

const (
	AlgorithmGZIP Algorithm = "GZIP"
	AlgorithmLZW  Algorithm = "LZW"
)

// ErrUnsupportedAlgorithm is returned when an algorithm name is not
// implemented by this process.
var ErrUnsupportedAlgorithm = errors.New("unsupported compression algorithm")

// ParseAlgorithm maps a wire name to a known algorithm. The second
// return value reports whether the name is recognized.
func ParseAlgorithm(name string) (Algorithm, bool) {
	switch a := Algorithm(name); a {
	case AlgorithmGZIP, AlgorithmLZW:
		return a, true
	}
	return "", false
}

// lzwLitWidth is fixed at 8 bits; both sides must agree since the
// width is not carried in the stream.
const lzwLitWidth = 8

// Compressor handles payload compression
type Compressor struct {
	compressionLevel int
}

// NewCompressor creates a new compressor with default compression level
func NewCompressor() *Compressor {
	return &Compressor{
		compressionLevel: gzip.DefaultCompression,
	}
}

// NewCompressorWithLevel creates a new compressor with specified
// compression level. The level applies to GZIP only; LZW has none.
func NewCompressorWithLevel(level int) *Compressor {
	return &Compressor{
		compressionLevel: level,
	}
}

// Compress compresses data with the given algorithm
func (c *Compressor) Compress(algorithm Algorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case AlgorithmGZIP:
		return c.compressGZIP(data)
	case AlgorithmLZW:
		return compressLZW(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

// Decompress decompresses data with the given algorithm
func (c *Compressor) Decompress(algorithm Algorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case AlgorithmGZIP:
		return decompressGZIP(data)
	case AlgorithmLZW:
		return decompressLZW(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

func (c *Compressor) compressGZIP(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, c.compressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

func decompressGZIP(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}

	return buf.Bytes(), nil
}

func compressLZW(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer := lzw.NewWriter(&buf, lzw.MSB, lzwLitWidth)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close lzw writer: %w", err)
	}

	return buf.Bytes(), nil
}

func decompressLZW(data []byte) ([]byte, error) {
	reader := lzw.NewReader(bytes.NewReader(data), lzw.MSB, lzwLitWidth)
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}

	return buf.Bytes(), nil
}
