// Copyright (c) 2026 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package gomsl implements the Message Security Layer (MSL) core: a
transport-agnostic protocol layer that lets two parties exchange
authenticated, optionally encrypted application payloads over an
untrusted transport, negotiating session keys without relying on the
transport's own security.

# Overview

go-msl provides the cryptographic framing and negotiation engine of
MSL. Callers hand the library raw bytes and receive raw bytes back;
the library never performs I/O itself. The surrounding message layer
decides when to renew keys or re-authenticate and which transport to
use.

# Package Structure

The library is organized into the following packages:

	github.com/sirosfoundation/go-msl/pkg/encoder      - Canonical MSL object/array encoding (JSON, CBOR)
	github.com/sirosfoundation/go-msl/pkg/crypto       - Crypto contexts, signature and ciphertext envelopes
	github.com/sirosfoundation/go-msl/pkg/keyx         - Key exchange schemes and negotiation
	github.com/sirosfoundation/go-msl/pkg/capabilities - Message capability negotiation
	github.com/sirosfoundation/go-msl/pkg/compression  - GZIP and LZW payload compression
	github.com/sirosfoundation/go-msl/pkg/profile      - Security profiles and YAML configuration

# Quick Start

To negotiate a session crypto context over Diffie-Hellman and seal a
payload:

	import (
	    "github.com/sirosfoundation/go-msl/pkg/encoder"
	    "github.com/sirosfoundation/go-msl/pkg/keyx"
	)

	enc := encoder.NewFactory()
	registry := keyx.NewRegistry(keyx.StaticKeySource{})

	// Initiator: build a key request.
	request, _ := keyx.NewDiffieHellmanRequest()
	negotiation, _ := keyx.NewNegotiation(registry, request, enc, encoder.FormatJSON, nil)
	requestBytes, _ := negotiation.Request()

	// Responder: answer the request and obtain its session context.
	responseBytes, responderCtx, _ := keyx.Respond(registry, requestBytes, enc, encoder.FormatJSON)

	// Initiator: derive the matching session context.
	initiatorCtx, _ := negotiation.HandleResponse(responseBytes)

	sealed, _ := initiatorCtx.Encrypt([]byte("payload"), enc, encoder.FormatJSON)
	opened, _ := responderCtx.Decrypt(sealed, enc, encoder.FormatJSON)

# Security Features

  - Uniform six-operation crypto contexts (encrypt, decrypt, sign,
    verify, wrap, unwrap) across symmetric session, RSA, ECC, and
    null variants, with deliberate capability gating.
  - Five key exchange schemes: ASYMMETRIC_WRAPPED, DIFFIE_HELLMAN,
    JWE_LADDER, JWK_LADDER, and SYMMETRIC_WRAPPED.
  - Deterministic canonical encoding in interchangeable text (JSON)
    and binary (CBOR, RFC 8949 Core Deterministic Encoding) wire
    formats.
  - Message capability intersection for compression, language, and
    encoder format negotiation.

# License

BSD-2-Clause License
*/
package gomsl
