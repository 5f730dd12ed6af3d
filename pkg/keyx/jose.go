package keyx

import (
	"fmt"

	"github.com/go-jose/go-jose/v4"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
)

// Ladder schemes fix the JOSE algorithms: A128KW key wrapping with
// A128GCM content encryption, which requires 128-bit key encryption
// keys throughout.
const ladderKEKSize = crypto.AESKeySize128

func encryptJWE(kek, payload []byte) (string, error) {
	if len(kek) != ladderKEKSize {
		return "", fmt.Errorf("%w: A128KW key must be %d bytes, got %d", crypto.ErrInvalidKeySize, ladderKEKSize, len(kek))
	}
	encrypter, err := jose.NewEncrypter(jose.A128GCM, jose.Recipient{Algorithm: jose.A128KW, Key: kek}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create JWE encrypter: %w", err)
	}
	obj, err := encrypter.Encrypt(payload)
	if err != nil {
		return "", fmt.Errorf("JWE encryption failed: %w", err)
	}
	token, err := obj.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("JWE serialization failed: %w", err)
	}
	return token, nil
}

func decryptJWE(kek []byte, token string) ([]byte, error) {
	if len(kek) != ladderKEKSize {
		return nil, fmt.Errorf("%w: A128KW key must be %d bytes, got %d", crypto.ErrInvalidKeySize, ladderKEKSize, len(kek))
	}
	obj, err := jose.ParseEncrypted(token,
		[]jose.KeyAlgorithm{jose.A128KW},
		[]jose.ContentEncryption{jose.A128GCM})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWE: %w", err)
	}
	payload, err := obj.Decrypt(kek)
	if err != nil {
		return nil, fmt.Errorf("JWE decryption failed: %w", err)
	}
	return payload, nil
}

// ladderKeyCodec converts raw session key bytes to and from the
// payload form a ladder scheme encrypts. JWE_LADDER ships raw bytes;
// JWK_LADDER ships JWK documents.
type ladderKeyCodec interface {
	encode(key []byte, use string) ([]byte, error)
	decode(payload []byte) ([]byte, error)
}

type rawKeyCodec struct{}

func (rawKeyCodec) encode(key []byte, _ string) ([]byte, error) {
	return key, nil
}

func (rawKeyCodec) decode(payload []byte) ([]byte, error) {
	return payload, nil
}

type jwkKeyCodec struct{}

func (jwkKeyCodec) encode(key []byte, use string) ([]byte, error) {
	jwk := jose.JSONWebKey{Key: key, Use: use}
	doc, err := jwk.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JWK: %w", err)
	}
	return doc, nil
}

func (jwkKeyCodec) decode(payload []byte) ([]byte, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(payload); err != nil {
		return nil, fmt.Errorf("failed to parse JWK: %w", err)
	}
	key, ok := jwk.Key.([]byte)
	if !ok {
		return nil, fmt.Errorf("JWK key is %T, not a symmetric key", jwk.Key)
	}
	return key, nil
}
