package crypto

import (
	"crypto/aes"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
)

// RFC 3394 default initial value.
const keyWrapIV = 0xA6A6A6A6A6A6A6A6

// WrapKey wraps key material under a key-encryption key using AES Key
// Wrap (RFC 3394). The key to wrap must be a multiple of 8 bytes and
// at least 16.
func WrapKey(kek, key []byte) ([]byte, error) {
	if err := ValidateAESKey(kek); err != nil {
		return nil, fmt.Errorf("invalid KEK: %w", err)
	}
	if len(key) < 16 || len(key)%8 != 0 {
		return nil, fmt.Errorf("%w: key to wrap must be a multiple of 8 bytes and at least 16, got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	n := len(key) / 8
	a := uint64(keyWrapIV)
	r := make([]byte, len(key))
	copy(r, key)

	var b [16]byte
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			binary.BigEndian.PutUint64(b[:8], a)
			copy(b[8:], r[(i-1)*8:i*8])
			block.Encrypt(b[:], b[:])
			a = binary.BigEndian.Uint64(b[:8]) ^ uint64(n*j+i)
			copy(r[(i-1)*8:i*8], b[8:])
		}
	}

	wrapped := make([]byte, 8+len(key))
	binary.BigEndian.PutUint64(wrapped[:8], a)
	copy(wrapped[8:], r)
	return wrapped, nil
}

// UnwrapKey unwraps key material wrapped with WrapKey. An integrity
// check failure means the KEK is wrong or the data was tampered with.
func UnwrapKey(kek, wrapped []byte) ([]byte, error) {
	if err := ValidateAESKey(kek); err != nil {
		return nil, fmt.Errorf("invalid KEK: %w", err)
	}
	if len(wrapped) < 24 || len(wrapped)%8 != 0 {
		return nil, fmt.Errorf("%w: wrapped key must be a multiple of 8 bytes and at least 24, got %d", ErrInvalidKeySize, len(wrapped))
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	n := len(wrapped)/8 - 1
	a := binary.BigEndian.Uint64(wrapped[:8])
	r := make([]byte, n*8)
	copy(r, wrapped[8:])

	var b [16]byte
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			binary.BigEndian.PutUint64(b[:8], a^uint64(n*j+i))
			copy(b[8:], r[(i-1)*8:i*8])
			block.Decrypt(b[:], b[:])
			a = binary.BigEndian.Uint64(b[:8])
			copy(r[(i-1)*8:i*8], b[8:])
		}
	}

	var iv [8]byte
	binary.BigEndian.PutUint64(iv[:], keyWrapIV)
	var got [8]byte
	binary.BigEndian.PutUint64(got[:], a)
	if subtle.ConstantTimeCompare(iv[:], got[:]) != 1 {
		return nil, fmt.Errorf("%w: integrity check failed", ErrCryptoFailure)
	}

	return r, nil
}
