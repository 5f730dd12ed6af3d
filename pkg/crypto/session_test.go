package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

func newTestSessionContext(t *testing.T) *SessionContext {
	t.Helper()

	encKey := make([]byte, AESKeySize128)
	hmacKey := make([]byte, 32)
	if _, err := rand.Read(encKey); err != nil {
		t.Fatalf("rand: %v", err)
	}
	if _, err := rand.Read(hmacKey); err != nil {
		t.Fatalf("rand: %v", err)
	}

	ctx, err := NewSessionContext("test-session", encKey, hmacKey)
	if err != nil {
		t.Fatalf("NewSessionContext: %v", err)
	}
	return ctx
}

func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := newTestSessionContext(t)
	plaintext := []byte("the quick brown fox")

	for _, format := range encoder.Formats() {
		t.Run(format.String(), func(t *testing.T) {
			sealed, err := ctx.Encrypt(plaintext, enc, format)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			if bytes.Contains(sealed, plaintext) {
				t.Error("ciphertext envelope contains plaintext")
			}

			opened, err := ctx.Decrypt(sealed, enc, format)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("round trip = %q; want %q", opened, plaintext)
			}
		})
	}
}

func TestSessionDecryptTamperedCiphertext(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := newTestSessionContext(t)

	sealed, err := ctx.Encrypt([]byte("payload"), enc, encoder.FormatCBOR)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Flip a bit inside the envelope's ciphertext field. The envelope
	// still parses; the GCM tag check must fail.
	envelope, err := ParseCiphertextEnvelope(sealed, enc, encoder.FormatCBOR)
	if err != nil {
		t.Fatalf("parse envelope: %v", err)
	}
	envelope.Ciphertext[0] ^= 0x01
	tampered, err := envelope.Encode(enc, encoder.FormatCBOR)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}

	_, err = ctx.Decrypt(tampered, enc, encoder.FormatCBOR)
	if !errors.Is(err, ErrCryptoFailure) {
		t.Errorf("Decrypt tampered = %v; want ErrCryptoFailure", err)
	}
}

func TestSessionDecryptGarbageIsEncodingFault(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := newTestSessionContext(t)

	_, err := ctx.Decrypt([]byte("not an envelope"), enc, encoder.FormatJSON)
	if !errors.Is(err, encoder.ErrMalformed) {
		t.Errorf("Decrypt garbage = %v; want encoder.ErrMalformed", err)
	}
	if errors.Is(err, ErrCryptoFailure) {
		t.Error("transport fault misreported as crypto failure")
	}
}

func TestSessionSignVerify(t *testing.T) {
	enc := encoder.NewFactory()
	ctx := newTestSessionContext(t)
	data := []byte("message to authenticate")

	signature, err := ctx.Sign(data, enc, encoder.FormatJSON)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	ok, err := ctx.Verify(data, signature, enc, encoder.FormatJSON)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("valid signature rejected")
	}

	ok, err = ctx.Verify([]byte("different data"), signature, enc, encoder.FormatJSON)
	if err != nil {
		t.Fatalf("Verify altered: %v", err)
	}
	if ok {
		t.Error("signature accepted for different data")
	}
}

func TestSessionVerifyAcrossContextsWithSameKeys(t *testing.T) {
	enc := encoder.NewFactory()

	encKey := bytes.Repeat([]byte{0x11}, 16)
	hmacKey := bytes.Repeat([]byte{0x22}, 32)
	a, err := NewSessionContext("a", encKey, hmacKey)
	if err != nil {
		t.Fatalf("context a: %v", err)
	}
	b, err := NewSessionContext("b", encKey, hmacKey)
	if err != nil {
		t.Fatalf("context b: %v", err)
	}

	data := []byte("shared session")
	signature, err := a.Sign(data, enc, encoder.FormatCBOR)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err := b.Verify(data, signature, enc, encoder.FormatCBOR)
	if err != nil || !ok {
		t.Errorf("Verify across contexts = %v, %v; want true, nil", ok, err)
	}

	// Context identifiers differ; decrypt must still succeed because
	// the envelope key ID is advisory.
	sealed, err := a.Encrypt(data, enc, encoder.FormatCBOR)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	opened, err := b.Decrypt(sealed, enc, encoder.FormatCBOR)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(opened, data) {
		t.Error("cross-context round trip failed")
	}
}

func TestSessionWrapUnwrap(t *testing.T) {
	ctx := newTestSessionContext(t)
	key := bytes.Repeat([]byte{0x5a}, 16)

	wrapped, err := ctx.Wrap(key)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	unwrapped, err := ctx.Unwrap(wrapped)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(unwrapped, key) {
		t.Error("wrap round trip changed key")
	}
}

func TestNewSessionContextRejectsBadKeys(t *testing.T) {
	hmacKey := bytes.Repeat([]byte{0x22}, 32)

	if _, err := NewSessionContext("x", []byte{1, 2, 3}, hmacKey); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("bad AES key = %v; want ErrInvalidKeySize", err)
	}
	if _, err := NewSessionContext("x", make([]byte, 16), hmacKey); !errors.Is(err, ErrWeakKey) {
		t.Errorf("all-zero AES key = %v; want ErrWeakKey", err)
	}
	if _, err := NewSessionContext("x", bytes.Repeat([]byte{0x11}, 16), []byte{1}); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("short HMAC key = %v; want ErrInvalidKeySize", err)
	}
}
