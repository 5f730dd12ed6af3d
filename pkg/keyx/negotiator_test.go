package keyx

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

func newTestKeySource() StaticKeySource {
	return StaticKeySource{
		PreSharedKeys: map[string][]byte{
			"psk-1": {0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f},
		},
		StorageKey: []byte{0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x2a, 0x2b, 0x2c, 0x2d, 0x2e, 0x2f},
	}
}

// assertSessionSymmetry checks the core correctness property: the
// initiator's derived context and the responder's context hold the
// same session keys.
func assertSessionSymmetry(t *testing.T, initiator, responder crypto.Context, enc *encoder.Factory, format encoder.Format) {
	t.Helper()
	payload := []byte("negotiated payload")

	sealed, err := initiator.Encrypt(payload, enc, format)
	require.NoError(t, err)
	opened, err := responder.Decrypt(sealed, enc, format)
	require.NoError(t, err)
	assert.Equal(t, payload, opened)

	sealed, err = responder.Encrypt(payload, enc, format)
	require.NoError(t, err)
	opened, err = initiator.Decrypt(sealed, enc, format)
	require.NoError(t, err)
	assert.Equal(t, payload, opened)

	signature, err := initiator.Sign(payload, enc, format)
	require.NoError(t, err)
	ok, err := responder.Verify(payload, signature, enc, format)
	require.NoError(t, err)
	assert.True(t, ok, "responder must verify initiator signatures")
}

func TestNegotiationAllSchemes(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(newTestKeySource())

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	newRequest := map[Scheme]func(t *testing.T) RequestData{
		SchemeAsymmetricWrapped: func(t *testing.T) RequestData {
			req, err := NewAsymmetricWrappedRequest("pair-1", rsaKey)
			require.NoError(t, err)
			return req
		},
		SchemeDiffieHellman: func(t *testing.T) RequestData {
			req, err := NewDiffieHellmanRequest()
			require.NoError(t, err)
			return req
		},
		SchemeJWELadder: func(t *testing.T) RequestData {
			return NewJWELadderRequest("psk-1")
		},
		SchemeJWKLadder: func(t *testing.T) RequestData {
			return NewJWKLadderRequest("psk-1")
		},
		SchemeSymmetricWrapped: func(t *testing.T) RequestData {
			return NewSymmetricWrappedRequest("psk-1")
		},
	}

	for _, scheme := range registry.Schemes() {
		for _, format := range encoder.Formats() {
			t.Run(string(scheme)+"/"+format.String(), func(t *testing.T) {
				negotiation, err := NewNegotiation(registry, newRequest[scheme](t), enc, format, nil)
				require.NoError(t, err)
				assert.Equal(t, StateNoKeys, negotiation.State())

				requestBytes, err := negotiation.Request()
				require.NoError(t, err)
				assert.Equal(t, StateRequestSent, negotiation.State())

				responseBytes, responderCtx, err := Respond(registry, requestBytes, enc, format)
				require.NoError(t, err)
				require.NotNil(t, responderCtx)

				initiatorCtx, err := negotiation.HandleResponse(responseBytes)
				require.NoError(t, err)
				assert.Equal(t, StateContextDerived, negotiation.State())

				assertSessionSymmetry(t, initiatorCtx, responderCtx, enc, format)
			})
		}
	}
}

func TestNegotiationStateMachine(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(StaticKeySource{})

	request, err := NewDiffieHellmanRequest()
	require.NoError(t, err)
	negotiation, err := NewNegotiation(registry, request, enc, encoder.FormatJSON, nil)
	require.NoError(t, err)

	// A response cannot be handled before the request was built.
	_, err = negotiation.HandleResponse([]byte("{}"))
	require.ErrorIs(t, err, ErrNegotiationFailed)
	assert.Equal(t, StateFailed, negotiation.State())

	// Failure is terminal.
	_, err = negotiation.Request()
	require.ErrorIs(t, err, ErrNegotiationFailed)
}

func TestNegotiationRequestOnlyOnce(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(StaticKeySource{})

	request, err := NewDiffieHellmanRequest()
	require.NoError(t, err)
	negotiation, err := NewNegotiation(registry, request, enc, encoder.FormatJSON, nil)
	require.NoError(t, err)

	_, err = negotiation.Request()
	require.NoError(t, err)
	_, err = negotiation.Request()
	require.ErrorIs(t, err, ErrNegotiationFailed)
	assert.Equal(t, StateFailed, negotiation.State())
}

func TestNegotiationMalformedResponse(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(StaticKeySource{})

	request, err := NewDiffieHellmanRequest()
	require.NoError(t, err)
	negotiation, err := NewNegotiation(registry, request, enc, encoder.FormatJSON, nil)
	require.NoError(t, err)
	_, err = negotiation.Request()
	require.NoError(t, err)

	_, err = negotiation.HandleResponse([]byte("not a response"))
	require.ErrorIs(t, err, ErrNegotiationFailed)
	assert.ErrorIs(t, err, encoder.ErrMalformed, "the encoding fault stays visible through the negotiation error")
	assert.Equal(t, StateFailed, negotiation.State())

	var nerr *NegotiationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, SchemeDiffieHellman, nerr.Scheme)
	assert.Equal(t, StepParseResponse, nerr.Step)
}

func TestNegotiationSchemeMismatchResponse(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(newTestKeySource())

	dhRequest, err := NewDiffieHellmanRequest()
	require.NoError(t, err)
	negotiation, err := NewNegotiation(registry, dhRequest, enc, encoder.FormatJSON, nil)
	require.NoError(t, err)
	_, err = negotiation.Request()
	require.NoError(t, err)

	// Answer a different scheme's request and feed that response in.
	symRequestBytes, err := EncodeRequest(NewSymmetricWrappedRequest("psk-1"), enc, encoder.FormatJSON)
	require.NoError(t, err)
	symResponseBytes, _, err := Respond(registry, symRequestBytes, enc, encoder.FormatJSON)
	require.NoError(t, err)

	_, err = negotiation.HandleResponse(symResponseBytes)
	require.ErrorIs(t, err, ErrNegotiationFailed)
	assert.Equal(t, StateFailed, negotiation.State())
}

func TestRespondUnknownScheme(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(StaticKeySource{})

	obj := enc.CreateObject()
	require.NoError(t, obj.Put("scheme", "QUANTUM_RESISTANT"))
	require.NoError(t, obj.Put("keydata", enc.CreateObject()))
	data, err := enc.EncodeObject(obj, encoder.FormatJSON)
	require.NoError(t, err)

	_, _, err = Respond(registry, data, enc, encoder.FormatJSON)
	require.ErrorIs(t, err, ErrUnknownScheme)
	assert.ErrorIs(t, err, ErrNegotiationFailed)

	var nerr *NegotiationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, Scheme("QUANTUM_RESISTANT"), nerr.Scheme)
}

func TestRespondUnknownPreSharedKey(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(StaticKeySource{})

	requestBytes, err := EncodeRequest(NewSymmetricWrappedRequest("no-such-key"), enc, encoder.FormatJSON)
	require.NoError(t, err)

	_, _, err = Respond(registry, requestBytes, enc, encoder.FormatJSON)
	require.ErrorIs(t, err, ErrNegotiationFailed)
}

func TestNegotiationUnknownSchemeUpFront(t *testing.T) {
	enc := encoder.NewFactory()
	registry := NewRegistry(StaticKeySource{})

	// A registry missing the request's scheme cannot start.
	delete(registry.factories, SchemeDiffieHellman)
	request, err := NewDiffieHellmanRequest()
	require.NoError(t, err)
	_, err = NewNegotiation(registry, request, enc, encoder.FormatJSON, nil)
	require.ErrorIs(t, err, ErrUnknownScheme)
}
