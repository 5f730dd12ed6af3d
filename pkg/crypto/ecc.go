package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

const variantECC = "ECC"

// ECCContext is a sign-only crypto context holding an ECDSA private
// key. Encrypt and decrypt pass data through unchanged so callers can
// use it interchangeably with encrypting variants; verify, wrap, and
// unwrap are not supported.
type ECCContext struct {
	id         string
	privateKey *ecdsa.PrivateKey
}

// NewECCContext creates an ECC signing context.
func NewECCContext(id string, privateKey *ecdsa.PrivateKey) (*ECCContext, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}
	return &ECCContext{id: id, privateKey: privateKey}, nil
}

// ID returns the context identifier.
func (c *ECCContext) ID() string {
	return c.id
}

// Encrypt passes data through unchanged.
func (c *ECCContext) Encrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	return bytes.Clone(data), nil
}

// Decrypt passes data through unchanged.
func (c *ECCContext) Decrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	return bytes.Clone(data), nil
}

// Wrap is not supported on ECC contexts.
func (c *ECCContext) Wrap(key []byte) ([]byte, error) {
	return nil, unsupported(OpWrap, variantECC)
}

// Unwrap is not supported on ECC contexts.
func (c *ECCContext) Unwrap(wrapped []byte) ([]byte, error) {
	return nil, unsupported(OpUnwrap, variantECC)
}

// Sign computes an ECDSA SHA-256 signature (ASN.1 DER) and returns an
// encoded signature envelope.
func (c *ECCContext) Sign(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	digest := sha256.Sum256(data)
	signature, err := ecdsa.SignASN1(rand.Reader, c.privateKey, digest[:])
	if err != nil {
		return nil, opFailure(OpSign, "ECDSA signing failed: %w", err)
	}
	envelope := NewSignatureEnvelope(SignatureECDSASHA256, signature)
	return envelope.Encode(enc, format)
}

// Verify is not supported: this context is sign-only. The peer
// verifies with the public key through its own means.
func (c *ECCContext) Verify(data, signature []byte, enc *encoder.Factory, format encoder.Format) (bool, error) {
	return false, unsupported(OpVerify, variantECC)
}
