package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// SessionContext is the symmetric crypto context produced by key
// exchange: AES-GCM for data, HMAC-SHA256 for signatures, and AES key
// wrap under the encryption key for key transport.
type SessionContext struct {
	id      string
	encKey  []byte
	hmacKey []byte
}

// NewSessionContext creates a session context from already
// materialized key bytes. The encryption key must be a legal AES key;
// the HMAC key at least 16 bytes. Key material is copied and never
// mutated afterwards.
func NewSessionContext(id string, encKey, hmacKey []byte) (*SessionContext, error) {
	if err := ValidateAESKey(encKey); err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	if err := ValidateHMACKey(hmacKey); err != nil {
		return nil, fmt.Errorf("hmac key: %w", err)
	}
	return &SessionContext{
		id:      id,
		encKey:  append([]byte(nil), encKey...),
		hmacKey: append([]byte(nil), hmacKey...),
	}, nil
}

// ID returns the context identifier carried in ciphertext envelopes.
func (c *SessionContext) ID() string {
	return c.id
}

// Encrypt seals data with AES-GCM and returns an encoded ciphertext
// envelope.
func (c *SessionContext) Encrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	gcm, err := c.newGCM()
	if err != nil {
		return nil, &OperationError{Op: OpEncrypt, Err: err}
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, opFailure(OpEncrypt, "failed to generate IV: %w", err)
	}

	envelope := &CiphertextEnvelope{
		KeyID:      c.id,
		IV:         iv,
		Ciphertext: gcm.Seal(nil, iv, data, nil),
	}
	return envelope.Encode(enc, format)
}

// Decrypt opens an encoded ciphertext envelope. The envelope key ID
// is advisory and not checked against this context; peers derive
// their own identifiers for the same key material.
func (c *SessionContext) Decrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	envelope, err := ParseCiphertextEnvelope(data, enc, format)
	if err != nil {
		return nil, err
	}

	gcm, err := c.newGCM()
	if err != nil {
		return nil, &OperationError{Op: OpDecrypt, Err: err}
	}
	if len(envelope.IV) != gcm.NonceSize() {
		return nil, opFailure(OpDecrypt, "bad IV length %d", len(envelope.IV))
	}

	plaintext, err := gcm.Open(nil, envelope.IV, envelope.Ciphertext, nil)
	if err != nil {
		return nil, opFailure(OpDecrypt, "AES-GCM open failed: %w", err)
	}
	return plaintext, nil
}

// Wrap wraps key material with AES key wrap under the session
// encryption key.
func (c *SessionContext) Wrap(key []byte) ([]byte, error) {
	wrapped, err := WrapKey(c.encKey, key)
	if err != nil {
		return nil, &OperationError{Op: OpWrap, Err: err}
	}
	return wrapped, nil
}

// Unwrap unwraps key material wrapped by the peer.
func (c *SessionContext) Unwrap(wrapped []byte) ([]byte, error) {
	key, err := UnwrapKey(c.encKey, wrapped)
	if err != nil {
		return nil, &OperationError{Op: OpUnwrap, Err: err}
	}
	return key, nil
}

// Sign computes HMAC-SHA256 over data and returns an encoded
// signature envelope.
func (c *SessionContext) Sign(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write(data)
	envelope := NewSignatureEnvelope(SignatureHMACSHA256, mac.Sum(nil))
	return envelope.Encode(enc, format)
}

// Verify parses a signature envelope and compares its HMAC against a
// freshly computed one. Envelope bytes are compared, not raw hashes.
func (c *SessionContext) Verify(data, signature []byte, enc *encoder.Factory, format encoder.Format) (bool, error) {
	envelope, err := ParseSignatureEnvelope(signature, enc, format)
	if err != nil {
		return false, err
	}
	if envelope.Algorithm != SignatureHMACSHA256 {
		return false, opFailure(OpVerify, "unexpected signature algorithm %q", envelope.Algorithm)
	}

	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write(data)
	return hmac.Equal(mac.Sum(nil), envelope.Signature), nil
}

func (c *SessionContext) newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
