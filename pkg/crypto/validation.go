package crypto

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeySize is returned when key material has a length
	// the algorithm cannot use
	ErrInvalidKeySize = errors.New("invalid key size")
	// ErrWeakKey is returned when key material is cryptographically
	// weak (all zero)
	ErrWeakKey = errors.New("weak key detected")
)

// AES accepts 128, 192, or 256-bit keys.
const (
	AESKeySize128 = 16
	AESKeySize192 = 24
	AESKeySize256 = 32
)

// HMACKeySizeMin is the minimum accepted HMAC-SHA256 key length.
// Shorter keys weaken the MAC below the hash output size.
const HMACKeySizeMin = 16

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ValidateAESKey checks an AES key for a legal size and obvious
// weakness.
func ValidateAESKey(key []byte) error {
	switch len(key) {
	case AESKeySize128, AESKeySize192, AESKeySize256:
	default:
		return fmt.Errorf("%w: AES key must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}
	if isAllZero(key) {
		return fmt.Errorf("%w: all-zero AES key", ErrWeakKey)
	}
	return nil
}

// ValidateHMACKey checks an HMAC key for minimum length and obvious
// weakness.
func ValidateHMACKey(key []byte) error {
	if len(key) < HMACKeySizeMin {
		return fmt.Errorf("%w: HMAC key must be at least %d bytes, got %d", ErrInvalidKeySize, HMACKeySizeMin, len(key))
	}
	if isAllZero(key) {
		return fmt.Errorf("%w: all-zero HMAC key", ErrWeakKey)
	}
	return nil
}

// ValidateX25519PublicKey rejects the known small-order Curve25519
// points. Key agreement against a small-order point yields a
// predictable shared secret.
func ValidateX25519PublicKey(publicKey []byte) error {
	if len(publicKey) != 32 {
		return fmt.Errorf("%w: X25519 public key must be 32 bytes, got %d", ErrInvalidKeySize, len(publicKey))
	}
	if isAllZero(publicKey) {
		return fmt.Errorf("%w: all-zero public key", ErrWeakKey)
	}
	for _, smallOrder := range smallOrderPoints {
		if string(publicKey) == string(smallOrder[:]) {
			return fmt.Errorf("%w: small-order point", ErrWeakKey)
		}
	}
	return nil
}

// Known small-order points on Curve25519 (orders 2, 4, and 8).
var smallOrderPoints = [][32]byte{
	{1},
	{0xe0, 0xeb, 0x7a, 0x7c, 0x3b, 0x41, 0xb8, 0xae, 0x16, 0x56, 0xe3, 0xfa, 0xf1, 0x9f, 0xc4, 0x6a,
		0xda, 0x09, 0x8d, 0xeb, 0x9c, 0x32, 0xb1, 0xfd, 0x86, 0x62, 0x05, 0x16, 0x5f, 0x49, 0xb8, 0x00},
	{0x5f, 0x9c, 0x95, 0xbc, 0xa3, 0x50, 0x8c, 0x24, 0xb1, 0xd0, 0xb1, 0x55, 0x9c, 0x83, 0xef, 0x5b,
		0x04, 0x44, 0x5c, 0xc4, 0x58, 0x1c, 0x8e, 0x86, 0xd8, 0x22, 0x4e, 0xdd, 0xd0, 0x9f, 0x11, 0x57},
}
