package keyx

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// DIFFIE_HELLMAN key data wire keys.
const dhKeyPublicKey = "publickey"

// hkdfInfo binds derived session keys to this protocol; both sides
// must expand the shared secret with the same label.
var hkdfInfo = []byte("msl-session-keys")

// DiffieHellmanRequest carries the initiator's ephemeral X25519
// public value. Instances built by NewDiffieHellmanRequest also hold
// the private scalar needed to derive the context later; parsed
// instances do not.
type DiffieHellmanRequest struct {
	publicKey  []byte
	privateKey []byte
}

// NewDiffieHellmanRequest generates a fresh ephemeral X25519 key pair
// and builds the request around its public value.
func NewDiffieHellmanRequest() (*DiffieHellmanRequest, error) {
	public, private, err := generateX25519()
	if err != nil {
		return nil, err
	}
	return &DiffieHellmanRequest{publicKey: public, privateKey: private}, nil
}

func (r *DiffieHellmanRequest) Scheme() Scheme {
	return SchemeDiffieHellman
}

// PublicKey returns the ephemeral public value carried in the
// request.
func (r *DiffieHellmanRequest) PublicKey() []byte {
	return r.publicKey
}

func (r *DiffieHellmanRequest) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	obj := enc.CreateObject()
	if err := obj.Put(dhKeyPublicKey, r.publicKey); err != nil {
		return nil, err
	}
	return obj, nil
}

// DiffieHellmanResponse carries the responder's ephemeral X25519
// public value.
type DiffieHellmanResponse struct {
	publicKey []byte
}

func (r *DiffieHellmanResponse) Scheme() Scheme {
	return SchemeDiffieHellman
}

func (r *DiffieHellmanResponse) PublicKey() []byte {
	return r.publicKey
}

func (r *DiffieHellmanResponse) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	obj := enc.CreateObject()
	if err := obj.Put(dhKeyPublicKey, r.publicKey); err != nil {
		return nil, err
	}
	return obj, nil
}

type diffieHellmanFactory struct{}

func (diffieHellmanFactory) Scheme() Scheme {
	return SchemeDiffieHellman
}

func (diffieHellmanFactory) ParseRequest(keydata *encoder.Object) (RequestData, error) {
	public, err := keydata.GetBytes(dhKeyPublicKey)
	if err != nil {
		return nil, err
	}
	if err := crypto.ValidateX25519PublicKey(public); err != nil {
		return nil, err
	}
	return &DiffieHellmanRequest{publicKey: public}, nil
}

func (diffieHellmanFactory) ParseResponse(keydata *encoder.Object) (ResponseData, error) {
	public, err := keydata.GetBytes(dhKeyPublicKey)
	if err != nil {
		return nil, err
	}
	if err := crypto.ValidateX25519PublicKey(public); err != nil {
		return nil, err
	}
	return &DiffieHellmanResponse{publicKey: public}, nil
}

func (f diffieHellmanFactory) GenerateResponse(req RequestData) (ResponseData, crypto.Context, error) {
	dhReq, ok := req.(*DiffieHellmanRequest)
	if !ok {
		return nil, nil, fmt.Errorf("request is not a %s request", SchemeDiffieHellman)
	}

	public, private, err := generateX25519()
	if err != nil {
		return nil, nil, err
	}
	ctx, err := deriveDHContext(private, dhReq.publicKey, public)
	if err != nil {
		return nil, nil, err
	}
	return &DiffieHellmanResponse{publicKey: public}, ctx, nil
}

func (f diffieHellmanFactory) DeriveContext(req RequestData, resp ResponseData) (crypto.Context, error) {
	dhReq, ok := req.(*DiffieHellmanRequest)
	if !ok {
		return nil, fmt.Errorf("request is not a %s request", SchemeDiffieHellman)
	}
	dhResp, ok := resp.(*DiffieHellmanResponse)
	if !ok {
		return nil, fmt.Errorf("response is not a %s response", SchemeDiffieHellman)
	}
	if dhReq.privateKey == nil {
		return nil, fmt.Errorf("request does not hold the initiator private key")
	}
	return deriveDHContext(dhReq.privateKey, dhResp.publicKey, dhResp.publicKey)
}

func generateX25519() (public, private []byte, err error) {
	private = make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(private); err != nil {
		return nil, nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}
	public, err = curve25519.X25519(private, curve25519.Basepoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute public key: %w", err)
	}
	if err := crypto.ValidateX25519PublicKey(public); err != nil {
		return nil, nil, fmt.Errorf("invalid generated ephemeral key: %w", err)
	}
	return public, private, nil
}

// deriveDHContext performs the X25519 agreement against the peer's
// public value and expands the shared secret into session keys. Both
// sides pass the responder's public value as the ID material so the
// derived contexts carry the same identifier.
func deriveDHContext(private, peerPublic, responderPublic []byte) (crypto.Context, error) {
	if err := crypto.ValidateX25519PublicKey(peerPublic); err != nil {
		return nil, fmt.Errorf("invalid peer public key: %w", err)
	}

	shared, err := curve25519.X25519(private, peerPublic)
	if err != nil {
		return nil, fmt.Errorf("key agreement failed: %w", err)
	}

	// No salt; the ephemeral keys already provide freshness.
	reader := hkdf.New(sha256.New, shared, nil, hkdfInfo)
	material := make([]byte, sessionEncKeySize+sessionHMACKeySize)
	if _, err := io.ReadFull(reader, material); err != nil {
		return nil, fmt.Errorf("failed to derive session keys: %w", err)
	}

	id := sessionID(SchemeDiffieHellman, responderPublic)
	return crypto.NewSessionContext(id, material[:sessionEncKeySize], material[sessionEncKeySize:])
}
