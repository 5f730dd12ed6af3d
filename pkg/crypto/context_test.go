package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

func newTestRSAContext(t *testing.T) *RSAContext {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ctx, err := NewRSAContext("test-rsa", key, nil)
	require.NoError(t, err)
	return ctx
}

func newTestECCContext(t *testing.T) *ECCContext {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ctx, err := NewECCContext("test-ecc", key)
	require.NoError(t, err)
	return ctx
}

// Each variant must fail its structurally impossible operations with
// the "not supported" condition and never return a result.
func TestCapabilityGating(t *testing.T) {
	enc := encoder.NewFactory()
	rsaCtx := newTestRSAContext(t)
	eccCtx := newTestECCContext(t)
	nullCtx := NewNullContext()

	cases := []struct {
		name string
		call func() error
		op   Operation
	}{
		{"RSA encrypt", func() error { _, err := rsaCtx.Encrypt([]byte("x"), enc, encoder.FormatJSON); return err }, OpEncrypt},
		{"RSA decrypt", func() error { _, err := rsaCtx.Decrypt([]byte("x"), enc, encoder.FormatJSON); return err }, OpDecrypt},
		{"ECC verify", func() error { _, err := eccCtx.Verify([]byte("x"), []byte("y"), enc, encoder.FormatJSON); return err }, OpVerify},
		{"ECC wrap", func() error { _, err := eccCtx.Wrap([]byte("x")); return err }, OpWrap},
		{"ECC unwrap", func() error { _, err := eccCtx.Unwrap([]byte("x")); return err }, OpUnwrap},
		{"null wrap", func() error { _, err := nullCtx.Wrap([]byte("x")); return err }, OpWrap},
		{"null unwrap", func() error { _, err := nullCtx.Unwrap([]byte("x")); return err }, OpUnwrap},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.ErrorIs(t, err, ErrOperationNotSupported)
			assert.NotErrorIs(t, err, ErrCryptoFailure,
				"capability mismatch must stay distinct from primitive failure")

			var unsupportedErr *UnsupportedError
			require.ErrorAs(t, err, &unsupportedErr)
			assert.Equal(t, tc.op, unsupportedErr.Op,
				"error must identify exactly which operation was refused")
		})
	}
}

func TestRSASignVerify(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := newTestRSAContext(t)
	data := []byte("sign me")

	signature, err := ctx.Sign(data, enc, encoder.FormatJSON)
	require.NoError(t, err)

	ok, err := ctx.Verify(data, signature, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ctx.Verify([]byte("other data"), signature, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.False(t, ok, "signature over different data must not verify")
}

func TestRSAPublicOnlyContext(t *testing.T) {
	enc := encoder.NewFactory()
	private := newTestRSAContext(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	public, err := NewRSAContext("pub-only", nil, &key.PublicKey)
	require.NoError(t, err)

	// Sign and unwrap need the private key.
	_, err = public.Sign([]byte("x"), enc, encoder.FormatJSON)
	assert.ErrorIs(t, err, ErrOperationNotSupported)
	_, err = public.Unwrap([]byte("x"))
	assert.ErrorIs(t, err, ErrOperationNotSupported)

	// A public-only context still verifies what the private context
	// signed, if it holds the matching public key.
	data := []byte("from private holder")
	signature, err := private.Sign(data, enc, encoder.FormatJSON)
	require.NoError(t, err)
	matching, err := NewRSAContext("verifier", nil, private.publicKey)
	require.NoError(t, err)
	ok, err := matching.Verify(data, signature, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRSAWrapUnwrap(t *testing.T) {
	ctx := newTestRSAContext(t)
	key := bytes.Repeat([]byte{0x5a}, 16)

	wrapped, err := ctx.Wrap(key)
	require.NoError(t, err)
	assert.NotEqual(t, key, wrapped)

	unwrapped, err := ctx.Unwrap(wrapped)
	require.NoError(t, err)
	assert.Equal(t, key, unwrapped)

	// Corrupt wrapped key is a primitive failure, not a capability
	// mismatch.
	wrapped[0] ^= 0x01
	_, err = ctx.Unwrap(wrapped)
	require.ErrorIs(t, err, ErrCryptoFailure)
}

func TestECCSignRoundTripsThroughEnvelope(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := newTestECCContext(t)
	data := []byte("sign-only payload")

	for _, format := range encoder.Formats() {
		signature, err := ctx.Sign(data, enc, format)
		require.NoError(t, err, format)

		envelope, err := ParseSignatureEnvelope(signature, enc, format)
		require.NoError(t, err, format)
		assert.Equal(t, SignatureECDSASHA256, envelope.Algorithm)
		assert.NotEmpty(t, envelope.Signature)

		// Re-encoding and re-parsing must expose identical bytes.
		reEncoded, err := envelope.Encode(enc, format)
		require.NoError(t, err)
		reParsed, err := ParseSignatureEnvelope(reEncoded, enc, format)
		require.NoError(t, err)
		assert.Equal(t, envelope.Signature, reParsed.Signature)
	}
}

func TestECCPassThrough(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := newTestECCContext(t)
	data := []byte("untouched")

	out, err := ctx.Encrypt(data, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	out, err = ctx.Decrypt(data, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestNullContextPassThrough(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := NewNullContext()
	data := []byte("plaintext")

	sealed, err := ctx.Encrypt(data, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, data, sealed)

	opened, err := ctx.Decrypt(sealed, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, data, opened)

	signature, err := ctx.Sign(data, enc, encoder.FormatJSON)
	require.NoError(t, err)
	ok, err := ctx.Verify(data, signature, enc, encoder.FormatJSON)
	require.NoError(t, err)
	assert.True(t, ok)
}
