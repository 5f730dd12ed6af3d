package keyx

import (
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// SYMMETRIC_WRAPPED key data wire keys.
const (
	symKeyID      = "keyid"
	symKeyEncKey  = "encryptionkey"
	symKeyHMACKey = "hmackey"
)

// SymmetricWrappedRequest names a pre-shared key encryption key by
// identifier. Both sides must hold the key; only the identifier
// travels on the wire.
type SymmetricWrappedRequest struct {
	keyID string
}

// NewSymmetricWrappedRequest builds a request naming a pre-shared
// key.
func NewSymmetricWrappedRequest(keyID string) *SymmetricWrappedRequest {
	return &SymmetricWrappedRequest{keyID: keyID}
}

func (r *SymmetricWrappedRequest) Scheme() Scheme {
	return SchemeSymmetricWrapped
}

func (r *SymmetricWrappedRequest) KeyID() string {
	return r.keyID
}

func (r *SymmetricWrappedRequest) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	obj := enc.CreateObject()
	if err := obj.Put(symKeyID, r.keyID); err != nil {
		return nil, err
	}
	return obj, nil
}

// SymmetricWrappedResponse carries both session keys AES-key-wrapped
// under the named pre-shared key.
type SymmetricWrappedResponse struct {
	keyID          string
	wrappedEncKey  []byte
	wrappedHMACKey []byte
}

func (r *SymmetricWrappedResponse) Scheme() Scheme {
	return SchemeSymmetricWrapped
}

func (r *SymmetricWrappedResponse) KeyID() string {
	return r.keyID
}

func (r *SymmetricWrappedResponse) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	obj := enc.CreateObject()
	if err := obj.Put(symKeyID, r.keyID); err != nil {
		return nil, err
	}
	if err := obj.Put(symKeyEncKey, r.wrappedEncKey); err != nil {
		return nil, err
	}
	if err := obj.Put(symKeyHMACKey, r.wrappedHMACKey); err != nil {
		return nil, err
	}
	return obj, nil
}

type symmetricWrappedFactory struct {
	keys KeySource
}

func (symmetricWrappedFactory) Scheme() Scheme {
	return SchemeSymmetricWrapped
}

func (symmetricWrappedFactory) ParseRequest(keydata *encoder.Object) (RequestData, error) {
	keyID, err := keydata.GetString(symKeyID)
	if err != nil {
		return nil, err
	}
	return &SymmetricWrappedRequest{keyID: keyID}, nil
}

func (symmetricWrappedFactory) ParseResponse(keydata *encoder.Object) (ResponseData, error) {
	keyID, err := keydata.GetString(symKeyID)
	if err != nil {
		return nil, err
	}
	wrappedEncKey, err := keydata.GetBytes(symKeyEncKey)
	if err != nil {
		return nil, err
	}
	wrappedHMACKey, err := keydata.GetBytes(symKeyHMACKey)
	if err != nil {
		return nil, err
	}
	return &SymmetricWrappedResponse{
		keyID:          keyID,
		wrappedEncKey:  wrappedEncKey,
		wrappedHMACKey: wrappedHMACKey,
	}, nil
}

func (f symmetricWrappedFactory) GenerateResponse(req RequestData) (ResponseData, crypto.Context, error) {
	symReq, ok := req.(*SymmetricWrappedRequest)
	if !ok {
		return nil, nil, fmt.Errorf("request is not a %s request", SchemeSymmetricWrapped)
	}

	kek, err := f.lookupKEK(symReq.keyID)
	if err != nil {
		return nil, nil, err
	}
	encKey, hmacKey, err := generateSessionKeys()
	if err != nil {
		return nil, nil, err
	}
	wrappedEncKey, err := crypto.WrapKey(kek, encKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to wrap encryption key: %w", err)
	}
	wrappedHMACKey, err := crypto.WrapKey(kek, hmacKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to wrap hmac key: %w", err)
	}

	ctx, err := crypto.NewSessionContext(symReq.keyID, encKey, hmacKey)
	if err != nil {
		return nil, nil, err
	}
	resp := &SymmetricWrappedResponse{
		keyID:          symReq.keyID,
		wrappedEncKey:  wrappedEncKey,
		wrappedHMACKey: wrappedHMACKey,
	}
	return resp, ctx, nil
}

func (f symmetricWrappedFactory) DeriveContext(req RequestData, resp ResponseData) (crypto.Context, error) {
	symReq, ok := req.(*SymmetricWrappedRequest)
	if !ok {
		return nil, fmt.Errorf("request is not a %s request", SchemeSymmetricWrapped)
	}
	symResp, ok := resp.(*SymmetricWrappedResponse)
	if !ok {
		return nil, fmt.Errorf("response is not a %s response", SchemeSymmetricWrapped)
	}
	if symResp.keyID != symReq.keyID {
		return nil, fmt.Errorf("response key id %q does not match request %q", symResp.keyID, symReq.keyID)
	}

	kek, err := f.lookupKEK(symReq.keyID)
	if err != nil {
		return nil, err
	}
	encKey, err := crypto.UnwrapKey(kek, symResp.wrappedEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
	}
	hmacKey, err := crypto.UnwrapKey(kek, symResp.wrappedHMACKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap hmac key: %w", err)
	}
	return crypto.NewSessionContext(symReq.keyID, encKey, hmacKey)
}

func (f symmetricWrappedFactory) lookupKEK(keyID string) ([]byte, error) {
	kek, err := f.keys.PreSharedKey(keyID)
	if err != nil {
		return nil, err
	}
	if err := crypto.ValidateAESKey(kek); err != nil {
		return nil, fmt.Errorf("pre-shared key %q: %w", keyID, err)
	}
	return kek, nil
}
