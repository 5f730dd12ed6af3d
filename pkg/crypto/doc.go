// Copyright (c) 2026 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package crypto implements the MSL crypto context abstraction: a
// uniform six-operation contract (encrypt, decrypt, sign, verify,
// wrap, unwrap) over several algorithm families.
//
// Every variant implements all six operations. An operation a variant
// structurally cannot perform fails immediately with a typed
// "not supported" condition identifying the operation; this is
// deliberate capability gating, so calling code never special-cases
// which variant it holds. Underlying primitive failures (bad key,
// corrupt ciphertext, tag mismatch) surface as a distinct
// cryptographic-operation-failure condition.
//
// Variants:
//
//   - SessionContext: AES-128-GCM encryption, HMAC-SHA256 signatures,
//     RFC 3394 AES key wrap. The product of key exchange.
//   - RSAContext: RSASSA signatures and RSA-OAEP key wrap; no data
//     encryption.
//   - ECCContext: ECDSA signing only; encrypt and decrypt pass data
//     through unchanged.
//   - NullContext: identity pass-through for integration testing and
//     unauthenticated bootstrap.
//
// Sign wraps its output in a SignatureEnvelope encoded by the
// canonical encoder at the caller's format; SessionContext.Encrypt
// produces a ciphertext envelope the same way, so every cryptographic
// artifact on the wire is MSL-encoded.
//
// All contexts are immutable after construction: key material is set
// once and never mutated, and independent contexts may be used
// concurrently.
package crypto
