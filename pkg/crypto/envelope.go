package crypto

import (
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// SignatureAlgorithm identifies the algorithm that produced a
// signature. Unknown identifiers parse successfully and are only
// rejected when verification is attempted, so envelopes from newer
// protocol revisions survive intermediaries.
type SignatureAlgorithm string

const (
	SignatureHMACSHA256  SignatureAlgorithm = "HmacSHA256"
	SignatureRSASHA256   SignatureAlgorithm = "SHA256withRSA"
	SignatureECDSASHA256 SignatureAlgorithm = "SHA256withECDSA"
	SignatureNull        SignatureAlgorithm = "NULL"
)

// Signature envelope wire keys.
const (
	envelopeKeyAlgorithm = "algorithm"
	envelopeKeySignature = "signature"
)

// SignatureEnvelope binds a signature algorithm identifier to raw
// signature bytes. It is the only form in which signatures appear on
// the wire.
type SignatureEnvelope struct {
	Algorithm SignatureAlgorithm
	Signature []byte
}

// NewSignatureEnvelope creates an envelope for signing with an
// explicit algorithm identifier.
func NewSignatureEnvelope(algorithm SignatureAlgorithm, signature []byte) *SignatureEnvelope {
	return &SignatureEnvelope{Algorithm: algorithm, Signature: signature}
}

// Encode serializes the envelope at the requested format.
func (e *SignatureEnvelope) Encode(enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	obj := enc.CreateObject()
	if err := obj.Put(envelopeKeyAlgorithm, string(e.Algorithm)); err != nil {
		return nil, err
	}
	if err := obj.Put(envelopeKeySignature, e.Signature); err != nil {
		return nil, err
	}
	return enc.EncodeObject(obj, format)
}

// ParseSignatureEnvelope reconstructs an envelope from wire bytes.
// The algorithm identifier is preserved verbatim, recognized or not.
func ParseSignatureEnvelope(data []byte, enc *encoder.Factory, format encoder.Format) (*SignatureEnvelope, error) {
	obj, err := enc.ParseObject(data, format)
	if err != nil {
		return nil, fmt.Errorf("signature envelope: %w", err)
	}
	algorithm, err := obj.GetString(envelopeKeyAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("signature envelope: %w", err)
	}
	signature, err := obj.GetBytes(envelopeKeySignature)
	if err != nil {
		return nil, fmt.Errorf("signature envelope: %w", err)
	}
	return &SignatureEnvelope{Algorithm: SignatureAlgorithm(algorithm), Signature: signature}, nil
}

// Ciphertext envelope wire keys.
const (
	ciphertextKeyID         = "keyid"
	ciphertextKeyIV         = "iv"
	ciphertextKeyCiphertext = "ciphertext"
)

// CiphertextEnvelope carries ciphertext together with the IV and an
// advisory identifier of the key that produced it.
type CiphertextEnvelope struct {
	KeyID      string
	IV         []byte
	Ciphertext []byte
}

// Encode serializes the envelope at the requested format.
func (e *CiphertextEnvelope) Encode(enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	obj := enc.CreateObject()
	if err := obj.Put(ciphertextKeyID, e.KeyID); err != nil {
		return nil, err
	}
	if err := obj.Put(ciphertextKeyIV, e.IV); err != nil {
		return nil, err
	}
	if err := obj.Put(ciphertextKeyCiphertext, e.Ciphertext); err != nil {
		return nil, err
	}
	return enc.EncodeObject(obj, format)
}

// ParseCiphertextEnvelope reconstructs a ciphertext envelope from
// wire bytes.
func ParseCiphertextEnvelope(data []byte, enc *encoder.Factory, format encoder.Format) (*CiphertextEnvelope, error) {
	obj, err := enc.ParseObject(data, format)
	if err != nil {
		return nil, fmt.Errorf("ciphertext envelope: %w", err)
	}
	keyID := obj.OptString(ciphertextKeyID, "")
	iv, err := obj.GetBytes(ciphertextKeyIV)
	if err != nil {
		return nil, fmt.Errorf("ciphertext envelope: %w", err)
	}
	ciphertext, err := obj.GetBytes(ciphertextKeyCiphertext)
	if err != nil {
		return nil, fmt.Errorf("ciphertext envelope: %w", err)
	}
	return &CiphertextEnvelope{KeyID: keyID, IV: iv, Ciphertext: ciphertext}, nil
}
