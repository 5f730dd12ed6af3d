// Copyright (c) 2026 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package encoder implements the canonical MSL encoding layer: the
// Object and Array value containers and their deterministic byte
// serialization in interchangeable wire formats.
//
// Two formats are supported, selected by an explicit format tag and
// never by content sniffing:
//
//   - FormatJSON: text-based; byte sequences travel as Base64 strings
//   - FormatCBOR: binary; RFC 8949 Core Deterministic Encoding, byte
//     sequences travel as native byte strings
//
// Every value round-tripped through encode and decode in the same
// format compares equal under Object.Equal and Array.Equal. Because a
// decoded field carries no static type information, GetBytes on both
// containers accepts either a native byte sequence or Base64 text.
//
// The crypto and key exchange layers build on this package: signature
// envelopes wrap encoded bytes, and key exchange data is itself
// MSL-encoded.
package encoder
