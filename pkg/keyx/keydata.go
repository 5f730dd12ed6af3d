package keyx

import (
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// Key exchange wire shape: every request and response is an encoder
// object with exactly these two members; the key data member is
// scheme-specific.
const (
	wireKeyScheme  = "scheme"
	wireKeyKeyData = "keydata"
)

func encodeExchange(scheme Scheme, keydata *encoder.Object, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	obj := enc.CreateObject()
	if err := obj.Put(wireKeyScheme, string(scheme)); err != nil {
		return nil, err
	}
	if err := obj.Put(wireKeyKeyData, keydata); err != nil {
		return nil, err
	}
	return enc.EncodeObject(obj, format)
}

func decodeExchange(data []byte, enc *encoder.Factory, format encoder.Format) (Scheme, *encoder.Object, error) {
	obj, err := enc.ParseObject(data, format)
	if err != nil {
		return "", nil, err
	}
	name, err := obj.GetString(wireKeyScheme)
	if err != nil {
		return "", nil, err
	}
	keydata, err := obj.GetObject(wireKeyKeyData)
	if err != nil {
		return "", nil, err
	}
	scheme, ok := ParseScheme(name)
	if !ok {
		// Keep the advertised name in the error context.
		return Scheme(name), nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return scheme, keydata, nil
}

// EncodeRequest serializes request data into its wire shape at the
// requested format.
func EncodeRequest(req RequestData, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	keydata, err := req.KeyData(enc)
	if err != nil {
		return nil, negotiationError(req.Scheme(), StepEncodeRequest, err)
	}
	data, err := encodeExchange(req.Scheme(), keydata, enc, format)
	if err != nil {
		return nil, negotiationError(req.Scheme(), StepEncodeRequest, err)
	}
	return data, nil
}

// ParseRequest reconstructs request data from wire bytes, dispatching
// on the scheme name. A request naming an unknown scheme fails the
// negotiation: the peer offered something this process cannot do.
func (r *Registry) ParseRequest(data []byte, enc *encoder.Factory, format encoder.Format) (RequestData, error) {
	scheme, keydata, err := decodeExchange(data, enc, format)
	if err != nil {
		return nil, negotiationError(scheme, StepParseRequest, err)
	}
	factory := r.Lookup(scheme)
	if factory == nil {
		return nil, negotiationError(scheme, StepParseRequest, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme))
	}
	req, err := factory.ParseRequest(keydata)
	if err != nil {
		return nil, negotiationError(scheme, StepParseRequest, err)
	}
	return req, nil
}

// EncodeResponse serializes response data into its wire shape at the
// requested format.
func EncodeResponse(resp ResponseData, enc *encoder.Factory, format encoder.Format) ([]byte, error) {
	keydata, err := resp.KeyData(enc)
	if err != nil {
		return nil, negotiationError(resp.Scheme(), StepGenerateResponse, err)
	}
	data, err := encodeExchange(resp.Scheme(), keydata, enc, format)
	if err != nil {
		return nil, negotiationError(resp.Scheme(), StepGenerateResponse, err)
	}
	return data, nil
}

// ParseResponse reconstructs response data from wire bytes,
// dispatching on the scheme name.
func (r *Registry) ParseResponse(data []byte, enc *encoder.Factory, format encoder.Format) (ResponseData, error) {
	scheme, keydata, err := decodeExchange(data, enc, format)
	if err != nil {
		return nil, negotiationError(scheme, StepParseResponse, err)
	}
	factory := r.Lookup(scheme)
	if factory == nil {
		return nil, negotiationError(scheme, StepParseResponse, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme))
	}
	resp, err := factory.ParseResponse(keydata)
	if err != nil {
		return nil, negotiationError(scheme, StepParseResponse, err)
	}
	return resp, nil
}
