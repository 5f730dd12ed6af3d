package crypto

import (
	"errors"
	"fmt"

	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// Operation names one of the six crypto context operations. Carried
// inside UnsupportedError and OperationError so callers can log
// precisely which part of the contract was violated.
type Operation string

const (
	OpEncrypt Operation = "encrypt"
	OpDecrypt Operation = "decrypt"
	OpSign    Operation = "sign"
	OpVerify  Operation = "verify"
	OpWrap    Operation = "wrap"
	OpUnwrap  Operation = "unwrap"
)

var (
	// ErrOperationNotSupported matches any capability-gating failure:
	// an operation invoked on a variant that structurally cannot
	// perform it. A configuration fault, never retryable.
	ErrOperationNotSupported = errors.New("operation not supported")
	// ErrCryptoFailure matches any underlying primitive failure: bad
	// key, corrupt ciphertext, tag mismatch. Distinct from encoding
	// faults so callers can tell "peer sent garbage" from "peer sent
	// well-formed but cryptographically invalid data".
	ErrCryptoFailure = errors.New("cryptographic operation failed")
)

// UnsupportedError reports an operation invoked on a crypto context
// variant that cannot perform it.
type UnsupportedError struct {
	Op      Operation
	Variant string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s not supported by %s crypto context", e.Op, e.Variant)
}

// Is makes errors.Is(err, ErrOperationNotSupported) succeed.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrOperationNotSupported
}

// OperationError reports a cryptographic primitive failure during an
// otherwise supported operation.
type OperationError struct {
	Op  Operation
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCryptoFailure) succeed.
func (e *OperationError) Is(target error) bool {
	return target == ErrCryptoFailure
}

func unsupported(op Operation, variant string) error {
	return &UnsupportedError{Op: op, Variant: variant}
}

func opFailure(op Operation, format string, args ...any) error {
	return &OperationError{Op: op, Err: fmt.Errorf(format, args...)}
}

// Context is the uniform crypto capability interface. Implementations
// either perform real work or fail with an UnsupportedError; callers
// never need to know which variant they hold.
//
// Sign produces a signature envelope encoded at the requested format;
// Verify reconstructs the envelope and compares signature bytes.
// Wrap and Unwrap transport keys rather than arbitrary data and
// operate on raw bytes without an envelope.
type Context interface {
	// Encrypt seals data, returning wire bytes in the given format.
	Encrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error)
	// Decrypt opens bytes produced by Encrypt. The format tag is the
	// one negotiated for the exchange; there is no content sniffing.
	Decrypt(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error)
	// Wrap encrypts a key for transport.
	Wrap(key []byte) ([]byte, error)
	// Unwrap decrypts a key wrapped by the peer.
	Unwrap(wrapped []byte) ([]byte, error)
	// Sign computes a signature over data and returns it inside an
	// encoded signature envelope.
	Sign(data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, error)
	// Verify parses a signature envelope and verifies the contained
	// signature over data. A well-formed but invalid signature
	// returns (false, nil); structural and primitive failures return
	// an error.
	Verify(data, signature []byte, enc *encoder.Factory, format encoder.Format) (bool, error)
}

var (
	_ Context = (*SessionContext)(nil)
	_ Context = (*RSAContext)(nil)
	_ Context = (*ECCContext)(nil)
	_ Context = (*NullContext)(nil)
)
