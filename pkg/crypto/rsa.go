package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

const variantRSA = "RSA"

// RSAContext signs with an RSA private key, verifies with the public
// key, and wraps keys with RSA-OAEP. Data encryption is not supported;
// RSA is a key transport and signature algorithm here, never a bulk
// cipher.
type RSAContext struct {
	id         string
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewRSAContext creates an RSA crypto context. Either key may be nil:
// a context holding only the public key can verify and wrap, one
// holding the private key can also sign and unwrap. A private key
// implies its public half.
func NewRSAContext(id string, privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) (*RSAContext, error) {
	if privateKey == nil && publicKey == nil {
		return nil, fmt.Errorf("at least one of private or public key is required")
	}
	if publicKey == nil {
		publicKey = &privateKey.PublicKey
	}
	return &RSAContext{id: id, privateKey: privateKey, publicKey: publicKey}, nil
}

// ID returns the context identifier.
func (c *RSAContext) ID() string {
	return c.id
}

// Encrypt is not supported on RSA contexts.
func (c *RSAContext) Encrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	return nil, unsupported(OpEncrypt, variantRSA)
}

// Decrypt is not supported on RSA contexts.
func (c *RSAContext) Decrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	return nil, unsupported(OpDecrypt, variantRSA)
}

// Wrap encrypts key material with RSA-OAEP under the public key.
func (c *RSAContext) Wrap(key []byte) ([]byte, error) {
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, c.publicKey, key, nil)
	if err != nil {
		return nil, opFailure(OpWrap, "RSA-OAEP encryption failed: %w", err)
	}
	return wrapped, nil
}

// Unwrap decrypts RSA-OAEP wrapped key material with the private key.
func (c *RSAContext) Unwrap(wrapped []byte) ([]byte, error) {
	if c.privateKey == nil {
		return nil, unsupported(OpUnwrap, variantRSA)
	}
	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, c.privateKey, wrapped, nil)
	if err != nil {
		return nil, opFailure(OpUnwrap, "RSA-OAEP decryption failed: %w", err)
	}
	return key, nil
}

// Sign computes an RSASSA-PKCS1-v1.5 SHA-256 signature and returns an
// encoded signature envelope.
func (c *RSAContext) Sign(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	if c.privateKey == nil {
		return nil, unsupported(OpSign, variantRSA)
	}
	digest := sha256.Sum256(data)
	signature, err := rsa.SignPKCS1v15(rand.Reader, c.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return nil, opFailure(OpSign, "RSA signing failed: %w", err)
	}
	envelope := NewSignatureEnvelope(SignatureRSASHA256, signature)
	return envelope.Encode(enc, format)
}

// Verify parses a signature envelope and verifies the contained
// RSASSA signature with the public key.
func (c *RSAContext) Verify(data, signature []byte, enc *encoder.Factory, format encoder.Format) (bool, error) {
	envelope, err := ParseSignatureEnvelope(signature, enc, format)
	if err != nil {
		return false, err
	}
	if envelope.Algorithm != SignatureRSASHA256 {
		return false, opFailure(OpVerify, "unexpected signature algorithm %q", envelope.Algorithm)
	}
	digest := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(c.publicKey, crypto.SHA256, digest[:], envelope.Signature); err != nil {
		return false, nil
	}
	return true, nil
}
