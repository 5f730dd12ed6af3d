package keyx

import (
	"crypto/rand"
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// Ladder key data wire keys, shared by JWE_LADDER and JWK_LADDER.
const (
	ladderKeyMechanism = "mechanism"
	ladderKeyPSKID     = "pskid"
	ladderKeyWrapData  = "wrapdata"
	ladderKeyWrapKey   = "wrapkey"
	ladderKeyEncKey    = "encryptionkey"
	ladderKeyHMACKey   = "hmackey"
)

// Ladder mechanisms. PSK anchors the first rung in a pre-shared key;
// WRAP climbs from the wrapping key delivered by a previous exchange.
const (
	LadderMechanismPSK  = "PSK"
	LadderMechanismWrap = "WRAP"
)

// LadderRequest asks the responder to mint a fresh wrapping key and
// deliver it under the mechanism key. For the WRAP mechanism the
// request echoes the responder's opaque wrap data from the previous
// rung; the matching wrapping key stays local to the initiator and is
// never serialized.
type LadderRequest struct {
	scheme      Scheme
	mechanism   string
	pskID       string
	wrapdata    []byte
	previousKey []byte
}

// NewJWELadderRequest builds a first-rung JWE_LADDER request anchored
// in the pre-shared key named by pskID.
func NewJWELadderRequest(pskID string) *LadderRequest {
	return &LadderRequest{scheme: SchemeJWELadder, mechanism: LadderMechanismPSK, pskID: pskID}
}

// NewJWELadderWrapRequest builds a JWE_LADDER request for the next
// rung: wrapdata is the responder's opaque state from the previous
// response, previousKey the wrapping key that response delivered
// (see RecoverWrappingKey).
func NewJWELadderWrapRequest(wrapdata, previousKey []byte) (*LadderRequest, error) {
	return newWrapRequest(SchemeJWELadder, wrapdata, previousKey)
}

// NewJWKLadderRequest builds a first-rung JWK_LADDER request anchored
// in the pre-shared key named by pskID.
func NewJWKLadderRequest(pskID string) *LadderRequest {
	return &LadderRequest{scheme: SchemeJWKLadder, mechanism: LadderMechanismPSK, pskID: pskID}
}

// NewJWKLadderWrapRequest builds a JWK_LADDER request for the next
// rung.
func NewJWKLadderWrapRequest(wrapdata, previousKey []byte) (*LadderRequest, error) {
	return newWrapRequest(SchemeJWKLadder, wrapdata, previousKey)
}

func newWrapRequest(scheme Scheme, wrapdata, previousKey []byte) (*LadderRequest, error) {
	if len(wrapdata) == 0 {
		return nil, fmt.Errorf("wrap data is required")
	}
	if len(previousKey) != ladderKEKSize {
		return nil, fmt.Errorf("%w: previous wrapping key must be %d bytes, got %d",
			crypto.ErrInvalidKeySize, ladderKEKSize, len(previousKey))
	}
	return &LadderRequest{
		scheme:      scheme,
		mechanism:   LadderMechanismWrap,
		wrapdata:    append([]byte(nil), wrapdata...),
		previousKey: append([]byte(nil), previousKey...),
	}, nil
}

func (r *LadderRequest) Scheme() Scheme {
	return r.scheme
}

// Mechanism returns the rung anchoring mechanism, PSK or WRAP.
func (r *LadderRequest) Mechanism() string {
	return r.mechanism
}

func (r *LadderRequest) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	obj := enc.CreateObject()
	if err := obj.Put(ladderKeyMechanism, r.mechanism); err != nil {
		return nil, err
	}
	switch r.mechanism {
	case LadderMechanismPSK:
		if err := obj.Put(ladderKeyPSKID, r.pskID); err != nil {
			return nil, err
		}
	case LadderMechanismWrap:
		if err := obj.Put(ladderKeyWrapData, r.wrapdata); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported mechanism %q", r.mechanism)
	}
	return obj, nil
}

// LadderResponse delivers the freshly minted wrapping key as a JWE
// under the mechanism key, the session keys as JWEs under the new
// wrapping key, and the opaque wrap data the initiator must echo on
// the next rung.
type LadderResponse struct {
	scheme   Scheme
	wrapKey  string
	wrapdata []byte
	encKey   string
	hmacKey  string
}

func (r *LadderResponse) Scheme() Scheme {
	return r.scheme
}

// WrapData returns the responder's opaque ladder state for the next
// rung's WRAP request.
func (r *LadderResponse) WrapData() []byte {
	return r.wrapdata
}

func (r *LadderResponse) KeyData(enc *encoder.Factory) (*encoder.Object, error) {
	obj := enc.CreateObject()
	if err := obj.Put(ladderKeyWrapKey, r.wrapKey); err != nil {
		return nil, err
	}
	if err := obj.Put(ladderKeyWrapData, r.wrapdata); err != nil {
		return nil, err
	}
	if err := obj.Put(ladderKeyEncKey, r.encKey); err != nil {
		return nil, err
	}
	if err := obj.Put(ladderKeyHMACKey, r.hmacKey); err != nil {
		return nil, err
	}
	return obj, nil
}

// ladderFactory implements both ladder schemes; they differ only in
// the payload form of the encrypted session keys.
type ladderFactory struct {
	scheme Scheme
	keys   KeySource
	codec  ladderKeyCodec
}

func (f ladderFactory) Scheme() Scheme {
	return f.scheme
}

func (f ladderFactory) ParseRequest(keydata *encoder.Object) (RequestData, error) {
	mechanism, err := keydata.GetString(ladderKeyMechanism)
	if err != nil {
		return nil, err
	}
	req := &LadderRequest{scheme: f.scheme, mechanism: mechanism}
	switch mechanism {
	case LadderMechanismPSK:
		if req.pskID, err = keydata.GetString(ladderKeyPSKID); err != nil {
			return nil, err
		}
	case LadderMechanismWrap:
		if req.wrapdata, err = keydata.GetBytes(ladderKeyWrapData); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported mechanism %q", mechanism)
	}
	return req, nil
}

func (f ladderFactory) ParseResponse(keydata *encoder.Object) (ResponseData, error) {
	wrapKey, err := keydata.GetString(ladderKeyWrapKey)
	if err != nil {
		return nil, err
	}
	wrapdata, err := keydata.GetBytes(ladderKeyWrapData)
	if err != nil {
		return nil, err
	}
	encKey, err := keydata.GetString(ladderKeyEncKey)
	if err != nil {
		return nil, err
	}
	hmacKey, err := keydata.GetString(ladderKeyHMACKey)
	if err != nil {
		return nil, err
	}
	return &LadderResponse{
		scheme:   f.scheme,
		wrapKey:  wrapKey,
		wrapdata: wrapdata,
		encKey:   encKey,
		hmacKey:  hmacKey,
	}, nil
}

func (f ladderFactory) GenerateResponse(req RequestData) (ResponseData, crypto.Context, error) {
	ladReq, ok := req.(*LadderRequest)
	if !ok || ladReq.scheme != f.scheme {
		return nil, nil, fmt.Errorf("request is not a %s request", f.scheme)
	}

	priorKEK, err := f.mechanismKey(ladReq)
	if err != nil {
		return nil, nil, err
	}

	// Mint the new wrapping key and persist it into opaque wrap data
	// under the storage key, so the next rung can climb from it.
	wrappingKey := make([]byte, ladderKEKSize)
	if _, err := rand.Read(wrappingKey); err != nil {
		return nil, nil, fmt.Errorf("failed to generate wrapping key: %w", err)
	}
	storageKey, err := f.keys.LadderStorageKey()
	if err != nil {
		return nil, nil, err
	}
	wrapdata, err := crypto.WrapKey(storageKey, wrappingKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create wrap data: %w", err)
	}
	wrapKeyJWE, err := encryptJWE(priorKEK, wrappingKey)
	if err != nil {
		return nil, nil, err
	}

	encKey, hmacKey, err := generateSessionKeys()
	if err != nil {
		return nil, nil, err
	}
	encKeyJWE, err := f.sealSessionKey(wrappingKey, encKey, "enc")
	if err != nil {
		return nil, nil, err
	}
	hmacKeyJWE, err := f.sealSessionKey(wrappingKey, hmacKey, "sig")
	if err != nil {
		return nil, nil, err
	}

	ctx, err := crypto.NewSessionContext(sessionID(f.scheme, wrappingKey), encKey, hmacKey)
	if err != nil {
		return nil, nil, err
	}
	resp := &LadderResponse{
		scheme:   f.scheme,
		wrapKey:  wrapKeyJWE,
		wrapdata: wrapdata,
		encKey:   encKeyJWE,
		hmacKey:  hmacKeyJWE,
	}
	return resp, ctx, nil
}

func (f ladderFactory) DeriveContext(req RequestData, resp ResponseData) (crypto.Context, error) {
	ladReq, ok := req.(*LadderRequest)
	if !ok || ladReq.scheme != f.scheme {
		return nil, fmt.Errorf("request is not a %s request", f.scheme)
	}
	ladResp, ok := resp.(*LadderResponse)
	if !ok || ladResp.scheme != f.scheme {
		return nil, fmt.Errorf("response is not a %s response", f.scheme)
	}

	priorKEK, err := f.mechanismKey(ladReq)
	if err != nil {
		return nil, err
	}
	wrappingKey, err := decryptJWE(priorKEK, ladResp.wrapKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap wrapping key: %w", err)
	}

	encKey, err := f.openSessionKey(wrappingKey, ladResp.encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
	}
	hmacKey, err := f.openSessionKey(wrappingKey, ladResp.hmacKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap hmac key: %w", err)
	}

	return crypto.NewSessionContext(sessionID(f.scheme, wrappingKey), encKey, hmacKey)
}

// RecoverWrappingKey recomputes the wrapping key a ladder response
// delivered, as the initiator needs it together with the response's
// wrap data to build the next rung's WRAP request. Request and
// response are left untouched.
func RecoverWrappingKey(registry *Registry, req RequestData, resp ResponseData) ([]byte, error) {
	f, ok := registry.Lookup(req.Scheme()).(ladderFactory)
	if !ok {
		return nil, fmt.Errorf("%s is not a ladder scheme", req.Scheme())
	}
	ladReq, ok := req.(*LadderRequest)
	if !ok || ladReq.scheme != f.scheme {
		return nil, fmt.Errorf("request is not a %s request", f.scheme)
	}
	ladResp, ok := resp.(*LadderResponse)
	if !ok || ladResp.scheme != f.scheme {
		return nil, fmt.Errorf("response is not a %s response", f.scheme)
	}

	priorKEK, err := f.mechanismKey(ladReq)
	if err != nil {
		return nil, err
	}
	wrappingKey, err := decryptJWE(priorKEK, ladResp.wrapKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap wrapping key: %w", err)
	}
	return wrappingKey, nil
}

// mechanismKey resolves the key encryption key anchoring this rung.
// PSK requests resolve through the key source on both sides; WRAP
// requests use the responder's wrap data on one side and the
// initiator's retained wrapping key on the other.
func (f ladderFactory) mechanismKey(req *LadderRequest) ([]byte, error) {
	switch req.mechanism {
	case LadderMechanismPSK:
		kek, err := f.keys.PreSharedKey(req.pskID)
		if err != nil {
			return nil, err
		}
		return kek, nil
	case LadderMechanismWrap:
		if req.previousKey != nil {
			return req.previousKey, nil
		}
		storageKey, err := f.keys.LadderStorageKey()
		if err != nil {
			return nil, err
		}
		kek, err := crypto.UnwrapKey(storageKey, req.wrapdata)
		if err != nil {
			return nil, fmt.Errorf("failed to recover wrapping key from wrap data: %w", err)
		}
		return kek, nil
	default:
		return nil, fmt.Errorf("unsupported mechanism %q", req.mechanism)
	}
}

func (f ladderFactory) sealSessionKey(wrappingKey, key []byte, use string) (string, error) {
	payload, err := f.codec.encode(key, use)
	if err != nil {
		return "", err
	}
	return encryptJWE(wrappingKey, payload)
}

func (f ladderFactory) openSessionKey(wrappingKey []byte, token string) ([]byte, error) {
	payload, err := decryptJWE(wrappingKey, token)
	if err != nil {
		return nil, err
	}
	return f.codec.decode(payload)
}
