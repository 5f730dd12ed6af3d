package encoder

// Format identifies a wire format for canonical MSL encoding. Formats
// are a closed, versioned enumeration agreed by both peers via message
// capability negotiation; the format in use is always selected by an
// explicit tag, never by content sniffing.
type Format string

const (
	// FormatJSON is the text-based wire format. Byte sequences are
	// carried as Base64 strings.
	FormatJSON Format = "JSON"
	// FormatCBOR is the binary wire format, encoded with RFC 8949
	// Core Deterministic Encoding. Byte sequences are carried as
	// native byte strings.
	FormatCBOR Format = "CBOR"
)

// Formats returns the supported formats in descending preference order.
func Formats() []Format {
	return []Format{FormatCBOR, FormatJSON}
}

// ParseFormat maps a wire format name to its tag. Unknown names are
// reported as absence, not as an error, because peers may advertise
// formats added in later protocol revisions.
func ParseFormat(name string) (Format, bool) {
	switch Format(name) {
	case FormatJSON:
		return FormatJSON, true
	case FormatCBOR:
		return FormatCBOR, true
	default:
		return "", false
	}
}

// Valid reports whether f is a supported format tag.
func (f Format) Valid() bool {
	_, ok := ParseFormat(string(f))
	return ok
}

func (f Format) String() string {
	return string(f)
}
