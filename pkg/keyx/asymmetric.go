package keyx

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// ASYMMETRIC_WRAPPED key data wire keys.
const (
	asymKeyPairID    = "keypairid"
	asymKeyMechanism = "mechanism"
	asymKeyPublicKey = "publickey"
	asymKeyEncKey    = "encryptionkey"
	asymKeyHMACKey   = "hmackey"
)

// MechanismRSA wraps session keys with RSA-OAEP-SHA256. The only
// mechanism currently defined for ASYMMETRIC_WRAPPED.
const MechanismRSA = "RSA"

// AsymmetricWrappedRequest carries a key pair identifier and the
// initiator's RSA public key in PKIX DER form. The responder wraps
// fresh session keys for that public key; only the holder of the
// private key can recover them.
type AsymmetricWrappedRequest struct {
	keyPairID  string
	publicKey  *rsa.PublicKey
	privateKey *rsa.PrivateKey
}

// NewAsymmetricWrappedRequest builds a request around the initiator's
// RSA key pair.
func NewAsymmetricWrappedRequest(keyPairID string, key *rsa.PrivateKey) (*AsymmetricWrappedRequest, error) {
	if key == nil {
		return nil, fmt.Errorf("private key is required")
	}
	return &AsymmetricWrappedRequest{
		keyPairID:  keyPairID,
		publicKey:  &key.PublicKey,
		privateKey: key,
	}, nil
}

func (r *AsymmetricWrappedRequest) Scheme() Scheme {
	return SchemeAsymmetricWrapped
}

// KeyPairID returns the identifier the response will echo back.
func (r *AsymmetricWrappedRequest) KeyPairID() string {
	return r.keyPairID
}

func (r *AsymmetricWrappedRequest) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	der, err := x509.MarshalPKIXPublicKey(r.publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	obj := enc.CreateObject()
	if err := obj.Put(asymKeyPairID, r.keyPairID); err != nil {
		return nil, err
	}
	if err := obj.Put(asymKeyMechanism, MechanismRSA); err != nil {
		return nil, err
	}
	if err := obj.Put(asymKeyPublicKey, der); err != nil {
		return nil, err
	}
	return obj, nil
}

// AsymmetricWrappedResponse echoes the request's key pair identifier
// and carries both session keys wrapped with RSA-OAEP.
type AsymmetricWrappedResponse struct {
	keyPairID      string
	wrappedEncKey  []byte
	wrappedHMACKey []byte
}

func (r *AsymmetricWrappedResponse) Scheme() Scheme {
	return SchemeAsymmetricWrapped
}

func (r *AsymmetricWrappedResponse) KeyPairID() string {
	return r.keyPairID
}

func (r *AsymmetricWrappedResponse) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	obj := enc.CreateObject()
	if err := obj.Put(asymKeyPairID, r.keyPairID); err != nil {
		return nil, err
	}
	if err := obj.Put(asymKeyEncKey, r.wrappedEncKey); err != nil {
		return nil, err
	}
	if err := obj.Put(asymKeyHMACKey, r.wrappedHMACKey); err != nil {
		return nil, err
	}
	return obj, nil
}

type asymmetricWrappedFactory struct{}

func (asymmetricWrappedFactory) Scheme() Scheme {
	return SchemeAsymmetricWrapped
}

func (asymmetricWrappedFactory) ParseRequest(keydata *encoder.Object) (RequestData, error) {
	keyPairID, err := keydata.GetString(asymKeyPairID)
	if err != nil {
		return nil, err
	}
	mechanism, err := keydata.GetString(asymKeyMechanism)
	if err != nil {
		return nil, err
	}
	if mechanism != MechanismRSA {
		return nil, fmt.Errorf("unsupported mechanism %q", mechanism)
	}
	der, err := keydata.GetBytes(asymKeyPublicKey)
	if err != nil {
		return nil, err
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, not RSA", parsed)
	}
	return &AsymmetricWrappedRequest{keyPairID: keyPairID, publicKey: publicKey}, nil
}

func (asymmetricWrappedFactory) ParseResponse(keydata *encoder.Object) (ResponseData, error) {
	keyPairID, err := keydata.GetString(asymKeyPairID)
	if err != nil {
		return nil, err
	}
	wrappedEncKey, err := keydata.GetBytes(asymKeyEncKey)
	if err != nil {
		return nil, err
	}
	wrappedHMACKey, err := keydata.GetBytes(asymKeyHMACKey)
	if err != nil {
		return nil, err
	}
	return &AsymmetricWrappedResponse{
		keyPairID:      keyPairID,
		wrappedEncKey:  wrappedEncKey,
		wrappedHMACKey: wrappedHMACKey,
	}, nil
}

func (asymmetricWrappedFactory) GenerateResponse(req RequestData) (ResponseData, crypto.Context, error) {
	asymReq, ok := req.(*AsymmetricWrappedRequest)
	if !ok {
		return nil, nil, fmt.Errorf("request is not a %s request", SchemeAsymmetricWrapped)
	}

	encKey, hmacKey, err := generateSessionKeys()
	if err != nil {
		return nil, nil, err
	}
	wrappedEncKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, asymReq.publicKey, encKey, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to wrap encryption key: %w", err)
	}
	wrappedHMACKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, asymReq.publicKey, hmacKey, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to wrap hmac key: %w", err)
	}

	ctx, err := crypto.NewSessionContext(asymReq.keyPairID, encKey, hmacKey)
	if err != nil {
		return nil, nil, err
	}
	resp := &AsymmetricWrappedResponse{
		keyPairID:      asymReq.keyPairID,
		wrappedEncKey:  wrappedEncKey,
		wrappedHMACKey: wrappedHMACKey,
	}
	return resp, ctx, nil
}

func (asymmetricWrappedFactory) DeriveContext(req RequestData, resp ResponseData) (crypto.Context, error) {
	asymReq, ok := req.(*AsymmetricWrappedRequest)
	if !ok {
		return nil, fmt.Errorf("request is not a %s request", SchemeAsymmetricWrapped)
	}
	asymResp, ok := resp.(*AsymmetricWrappedResponse)
	if !ok {
		return nil, fmt.Errorf("response is not a %s response", SchemeAsymmetricWrapped)
	}
	if asymReq.privateKey == nil {
		return nil, fmt.Errorf("request does not hold the initiator private key")
	}
	if asymResp.keyPairID != asymReq.keyPairID {
		return nil, fmt.Errorf("response key pair id %q does not match request %q", asymResp.keyPairID, asymReq.keyPairID)
	}

	encKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, asymReq.privateKey, asymResp.wrappedEncKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
	}
	hmacKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, asymReq.privateKey, asymResp.wrappedHMACKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap hmac key: %w", err)
	}
	return crypto.NewSessionContext(asymReq.keyPairID, encKey, hmacKey)
}
