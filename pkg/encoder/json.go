package encoder

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errTrailingData = errors.New("trailing data after value")

// encodeJSON serializes an exported value tree as JSON. Map keys are
// emitted in sorted order by encoding/json, so encoding is
// deterministic for a given value tree.
func encodeJSON(root any) ([]byte, error) {
	data, err := json.Marshal(exportValue(root))
	if err != nil {
		return nil, malformedError(FormatJSON, err)
	}
	return data, nil
}

// decodeJSON parses JSON bytes into a raw codec value. Numbers are
// decoded through json.Number so integers survive without a float
// round trip. Trailing garbage after the value is a transport fault.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, malformedError(FormatJSON, err)
	}
	if dec.More() {
		return nil, malformedError(FormatJSON, errTrailingData)
	}
	return raw, nil
}
