package encoder

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode encodes with RFC 8949 Core Deterministic Encoding:
// sorted map keys, smallest integer encoding, no indefinite-length
// items. The same value tree always produces identical bytes.
var cborEncMode cbor.EncMode

// cborDecMode decodes standard CBOR. MSL objects only ever carry
// string keys, so any-typed targets decode to map[string]any.
var cborDecMode cbor.DecMode

func init() {
	var err error

	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("encoder: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("encoder: CBOR decoder initialization failed: " + err.Error())
	}
}

// encodeCBOR serializes an exported value tree as deterministic CBOR.
func encodeCBOR(root any) ([]byte, error) {
	data, err := cborEncMode.Marshal(exportValue(root))
	if err != nil {
		return nil, malformedError(FormatCBOR, err)
	}
	return data, nil
}

// decodeCBOR parses CBOR bytes into a raw codec value. Trailing bytes
// after the first data item are a transport fault.
func decodeCBOR(data []byte) (any, error) {
	var raw any
	rest, err := cborDecMode.UnmarshalFirst(data, &raw)
	if err != nil {
		return nil, malformedError(FormatCBOR, err)
	}
	if len(rest) != 0 {
		return nil, malformedError(FormatCBOR, errTrailingData)
	}
	return raw, nil
}
