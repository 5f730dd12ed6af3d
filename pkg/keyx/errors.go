package keyx

import (
	"errors"
	"fmt"
)

var (
	// ErrNegotiationFailed matches any key exchange negotiation
	// failure. Distinct from transport and encoding conditions so the
	// caller can retry with a different scheme instead of retrying the
	// transport.
	ErrNegotiationFailed = errors.New("key exchange negotiation failed")
	// ErrUnknownScheme is returned when parsed key exchange data names
	// a scheme this process does not implement.
	ErrUnknownScheme = errors.New("unknown key exchange scheme")
)

// Step names the negotiation step at which a failure occurred.
type Step string

const (
	StepEncodeRequest    Step = "encode request"
	StepParseRequest     Step = "parse request"
	StepGenerateResponse Step = "generate response"
	StepParseResponse    Step = "parse response"
	StepDeriveContext    Step = "derive context"
)

// NegotiationError reports a failed key exchange negotiation. It
// carries the scheme and the step that failed so the caller can decide
// whether another scheme is worth attempting.
type NegotiationError struct {
	Scheme Scheme
	Step   Step
	Err    error
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("%s negotiation failed at %s: %v", e.Scheme, e.Step, e.Err)
}

func (e *NegotiationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNegotiationFailed) succeed.
func (e *NegotiationError) Is(target error) bool {
	return target == ErrNegotiationFailed
}

// negotiationError wraps err unless it is already a negotiation
// failure, so the outermost step does not shadow the one that actually
// failed. An inner failure raised before the wire bytes yielded a
// scheme name carries an empty scheme; the scheme known to the caller
// is attached then.
func negotiationError(scheme Scheme, step Step, err error) error {
	var nerr *NegotiationError
	if errors.As(err, &nerr) {
		if nerr.Scheme != "" {
			return err
		}
		return &NegotiationError{Scheme: scheme, Step: nerr.Step, Err: nerr.Err}
	}
	return &NegotiationError{Scheme: scheme, Step: step, Err: err}
}
