// Copyright (c) 2026 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package compression provides GZIP and LZW payload compression.

Payloads are compressed with one of the algorithms negotiated through
message capabilities; the algorithm travels alongside the payload, so
decompression never guesses.

# Compression

Compress payloads before sealing:

	compressor := compression.NewCompressor()
	compressed, err := compressor.Compress(compression.AlgorithmGZIP, payload)

Decompress received payloads:

	decompressed, err := compressor.Decompress(compression.AlgorithmGZIP, compressed)

# References

  - GZIP RFC 1952: https://datatracker.ietf.org/doc/html/rfc1952
*/
package compression
