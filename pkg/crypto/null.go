package crypto

import (
	"bytes"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

const variantNull = "null"

// NullContext is the no-op crypto context: encrypt and decrypt pass
// data through unchanged, sign produces an empty signature envelope,
// and verify always succeeds. Used before any keys are negotiated and
// in integration tests. Wrap and unwrap are not supported; there is
// no key to wrap under.
type NullContext struct{}

// NewNullContext creates a null crypto context.
func NewNullContext() *NullContext {
	return &NullContext{}
}

// Encrypt passes data through unchanged.
func (c *NullContext) Encrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	return bytes.Clone(data), nil
}

// Decrypt passes data through unchanged.
func (c *NullContext) Decrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	return bytes.Clone(data), nil
}

// Wrap is not supported on null contexts.
func (c *NullContext) Wrap(key []byte) ([]byte, error) {
	return nil, unsupported(OpWrap, variantNull)
}

// Unwrap is not supported on null contexts.
func (c *NullContext) Unwrap(wrapped []byte) ([]byte, error) {
	return nil, unsupported(OpUnwrap, variantNull)
}

// Sign returns an encoded signature envelope carrying an empty
// signature, so downstream envelope handling stays uniform.
func (c *NullContext) Sign(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	envelope := NewSignatureEnvelope(SignatureNull, []byte{})
	return envelope.Encode(enc, format)
}

// Verify accepts any well-formed signature envelope.
func (c *NullContext) Verify(data, signature []byte, enc *encoder.Factory, format encoder.Format) (bool, error) {
	if _, err := ParseSignatureEnvelope(signature, enc, format); err != nil {
		return false, err
	}
	return true, nil
}
