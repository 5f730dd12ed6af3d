package keyx

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// Scheme names a key exchange scheme. The set is fixed; peers may
// advertise schemes from later protocol revisions, which are treated
// as "not offered" rather than as faults.
type Scheme string

const (
	SchemeAsymmetricWrapped Scheme = "ASYMMETRIC_WRAPPED"
	SchemeDiffieHellman     Scheme = "DIFFIE_HELLMAN"
	SchemeJWELadder         Scheme = "JWE_LADDER"
	SchemeJWKLadder         Scheme = "JWK_LADDER"
	SchemeSymmetricWrapped  Scheme = "SYMMETRIC_WRAPPED"
)

// ParseScheme maps a wire name to a known scheme. The second return
// value reports whether the name is recognized.
func ParseScheme(name string) (Scheme, bool) {
	switch s := Scheme(name); s {
	case SchemeAsymmetricWrapped, SchemeDiffieHellman, SchemeJWELadder,
		SchemeJWKLadder, SchemeSymmetricWrapped:
		return s, true
	}
	return "", false
}

// KeySource supplies the long-lived key material some schemes depend
// on: pre-shared key encryption keys and the responder-local storage
// key that protects ladder wrap data at rest.
type KeySource interface {
	// PreSharedKey returns the pre-shared key registered under id.
	PreSharedKey(id string) ([]byte, error)
	// LadderStorageKey returns the responder's storage key for ladder
	// wrap data. Never sent on the wire.
	LadderStorageKey() ([]byte, error)
}

// StaticKeySource is a KeySource backed by in-memory maps. The zero
// value is a valid source that knows no keys, which is sufficient for
// schemes that need none (DIFFIE_HELLMAN, ASYMMETRIC_WRAPPED).
type StaticKeySource struct {
	PreSharedKeys map[string][]byte
	StorageKey    []byte
}

func (s StaticKeySource) PreSharedKey(id string) ([]byte, error) {
	key, ok := s.PreSharedKeys[id]
	if !ok {
		return nil, fmt.Errorf("no pre-shared key %q", id)
	}
	return key, nil
}

func (s StaticKeySource) LadderStorageKey() ([]byte, error) {
	if len(s.StorageKey) == 0 {
		return nil, errors.New("no ladder storage key configured")
	}
	return s.StorageKey, nil
}

// RequestData is the initiator-side key exchange payload of one
// scheme. Instances built by a New*Request constructor carry private
// scheme state; instances parsed from the wire carry only what the
// peer sent.
type RequestData interface {
	Scheme() Scheme
	// KeyData returns the scheme-specific key data object carried
	// inside the request wire shape.
	KeyData(enc *encoder.Factory) (*encoder.Object, error)
}

// ResponseData is the responder-side key exchange payload of one
// scheme.
type ResponseData interface {
	Scheme() Scheme
	KeyData(enc *encoder.Factory) (*encoder.Object, error)
}

// Factory implements one key exchange scheme: parsing its wire
// shapes, answering requests, and deriving the initiator's context.
type Factory interface {
	Scheme() Scheme
	// ParseRequest reconstructs request data from its key data object.
	ParseRequest(keydata *encoder.Object) (RequestData, error)
	// ParseResponse reconstructs response data from its key data
	// object.
	ParseResponse(keydata *encoder.Object) (ResponseData, error)
	// GenerateResponse validates the request, performs the scheme's
	// agreement step, and returns the response together with the
	// responder's session context.
	GenerateResponse(req RequestData) (ResponseData, crypto.Context, error)
	// DeriveContext performs the initiator's complementary
	// computation. Given matching inputs it must yield bit-identical
	// session keys to the responder's context.
	DeriveContext(req RequestData, resp ResponseData) (crypto.Context, error)
}

// Registry holds the fixed scheme set. Populated once at construction
// and read-only afterwards, so concurrent lookups need no locking.
type Registry struct {
	keys      KeySource
	factories map[Scheme]Factory
}

// NewRegistry creates a registry over all five schemes, sharing one
// key source between the schemes that need pre-shared material.
func NewRegistry(keys KeySource) *Registry {
	return &Registry{
		keys: keys,
		factories: map[Scheme]Factory{
			SchemeAsymmetricWrapped: asymmetricWrappedFactory{},
			SchemeDiffieHellman:     diffieHellmanFactory{},
			SchemeJWELadder:         ladderFactory{scheme: SchemeJWELadder, keys: keys, codec: rawKeyCodec{}},
			SchemeJWKLadder:         ladderFactory{scheme: SchemeJWKLadder, keys: keys, codec: jwkKeyCodec{}},
			SchemeSymmetricWrapped:  symmetricWrappedFactory{keys: keys},
		},
	}
}

// Lookup returns the factory for a scheme, or nil when the scheme is
// unknown. Absence is not an error: an unrecognized scheme means "not
// offered".
func (r *Registry) Lookup(scheme Scheme) Factory {
	return r.factories[scheme]
}

// Schemes returns the registered scheme names in sorted order.
func (r *Registry) Schemes() []Scheme {
	schemes := make([]Scheme, 0, len(r.factories))
	for s := range r.factories {
		schemes = append(schemes, s)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i] < schemes[j] })
	return schemes
}

// Session key sizes shared by every scheme: AES-128 for encryption,
// 256-bit HMAC-SHA256 key for authentication.
const (
	sessionEncKeySize  = crypto.AESKeySize128
	sessionHMACKeySize = 32
)

// generateSessionKeys mints fresh random session key material for the
// responder-minted schemes.
func generateSessionKeys() (encKey, hmacKey []byte, err error) {
	encKey = make([]byte, sessionEncKeySize)
	hmacKey = make([]byte, sessionHMACKeySize)
	if _, err := rand.Read(encKey); err != nil {
		return nil, nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}
	if _, err := rand.Read(hmacKey); err != nil {
		return nil, nil, fmt.Errorf("failed to generate hmac key: %w", err)
	}
	return encKey, hmacKey, nil
}

// sessionID derives an advisory context identifier from public
// exchange material, so both sides label the same session the same
// way without another wire field.
func sessionID(scheme Scheme, material []byte) string {
	sum := sha256.Sum256(material)
	return fmt.Sprintf("%s-%x", strings.ToLower(string(scheme)), sum[:8])
}
