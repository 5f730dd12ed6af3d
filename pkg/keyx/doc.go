// Copyright (c) 2026 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package keyx implements the key exchange schemes and the negotiation
protocol that establish session crypto contexts between two parties.

Five schemes are supported, registered as process-lifetime singletons
in a Registry: ASYMMETRIC_WRAPPED, DIFFIE_HELLMAN, JWE_LADDER,
JWK_LADDER, and SYMMETRIC_WRAPPED. Each scheme defines a request and
response key data shape; a response always carries enough information
for the initiator to derive the same session keys the responder
derived, without further round-trips.

The initiator drives a Negotiation through its state machine (build
request, send, handle response, derive context). The responder side is
stateless: Respond answers a parsed request in one step and returns
both the wire response and the responder's session context.
*/
package keyx
