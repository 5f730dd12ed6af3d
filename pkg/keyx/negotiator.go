package keyx

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sirosfoundation/go-msl/pkg/crypto"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
)

// State tracks an initiator-side negotiation through its lifecycle.
// StateContextDerived and StateFailed are terminal; there is no
// partial success and no internal retry.
type State int

const (
	StateNoKeys State = iota
	StateRequestSent
	StateResponseReceived
	StateContextDerived
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNoKeys:
		return "NO_KEYS"
	case StateRequestSent:
		return "REQUEST_SENT"
	case StateResponseReceived:
		return "RESPONSE_RECEIVED"
	case StateContextDerived:
		return "CRYPTO_CONTEXT_DERIVED"
	case StateFailed:
		return "FAILED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Negotiation drives one key exchange attempt from the initiator
// side. A negotiation is used by a single goroutine; independent
// negotiations are fully independent.
type Negotiation struct {
	id       string
	registry *Registry
	factory  Factory
	request  RequestData
	enc      *encoder.Factory
	format   encoder.Format
	logger   *slog.Logger
	state    State
}

// NewNegotiation starts a negotiation for the given request. A nil
// logger falls back to slog.Default. Fails immediately when the
// registry does not implement the request's scheme.
func NewNegotiation(registry *Registry, request RequestData, enc *encoder.Factory, format encoder.Format, logger *slog.Logger) (*Negotiation, error) {
	if registry == nil || request == nil {
		return nil, fmt.Errorf("registry and request are required")
	}
	factory := registry.Lookup(request.Scheme())
	if factory == nil {
		return nil, negotiationError(request.Scheme(), StepEncodeRequest,
			fmt.Errorf("%w: %q", ErrUnknownScheme, request.Scheme()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Negotiation{
		id:       id,
		registry: registry,
		factory:  factory,
		request:  request,
		enc:      enc,
		format:   format,
		logger:   logger.With("negotiation", id, "scheme", string(request.Scheme())),
		state:    StateNoKeys,
	}, nil
}

// ID returns the negotiation attempt identifier carried in log
// records.
func (n *Negotiation) ID() string {
	return n.id
}

// State returns the current negotiation state.
func (n *Negotiation) State() State {
	return n.state
}

// Scheme returns the scheme this negotiation attempts.
func (n *Negotiation) Scheme() Scheme {
	return n.request.Scheme()
}

// Request serializes the key request for transport and moves the
// negotiation to REQUEST_SENT.
func (n *Negotiation) Request() ([]byte, error) {
	if n.state != StateNoKeys {
		return nil, n.fail(StepEncodeRequest, fmt.Errorf("request built in state %s", n.state))
	}
	data, err := EncodeRequest(n.request, n.enc, n.format)
	if err != nil {
		return nil, n.fail(StepEncodeRequest, err)
	}
	n.state = StateRequestSent
	n.logger.Debug("key request built", "format", string(n.format), "size", len(data))
	return data, nil
}

// HandleResponse parses the peer's response and derives the session
// crypto context. Any failure is terminal for this negotiation; the
// caller may start a new one with a different scheme.
func (n *Negotiation) HandleResponse(data []byte) (crypto.Context, error) {
	if n.state != StateRequestSent {
		return nil, n.fail(StepParseResponse, fmt.Errorf("response received in state %s", n.state))
	}
	n.state = StateResponseReceived

	resp, err := n.registry.ParseResponse(data, n.enc, n.format)
	if err != nil {
		return nil, n.fail(StepParseResponse, err)
	}
	if resp.Scheme() != n.request.Scheme() {
		return nil, n.fail(StepParseResponse,
			fmt.Errorf("response scheme %s does not match request scheme %s", resp.Scheme(), n.request.Scheme()))
	}

	ctx, err := n.factory.DeriveContext(n.request, resp)
	if err != nil {
		return nil, n.fail(StepDeriveContext, err)
	}
	n.state = StateContextDerived
	n.logger.Info("session context derived")
	return ctx, nil
}

func (n *Negotiation) fail(step Step, err error) error {
	n.state = StateFailed
	nerr := negotiationError(n.request.Scheme(), step, err)
	n.logger.Warn("negotiation failed", "step", string(step), "error", nerr)
	return nerr
}

// Respond answers a serialized key request in one step: parse,
// perform the scheme's agreement, and serialize the response. The
// returned context is the responder's session context, live
// immediately.
func Respond(registry *Registry, data []byte, enc *encoder.Factory, format encoder.Format) ([]byte, crypto.Context, error) {
	req, err := registry.ParseRequest(data, enc, format)
	if err != nil {
		return nil, nil, err
	}
	factory := registry.Lookup(req.Scheme())

	resp, ctx, err := factory.GenerateResponse(req)
	if err != nil {
		return nil, nil, negotiationError(req.Scheme(), StepGenerateResponse, err)
	}
	respBytes, err := EncodeResponse(resp, enc, format)
	if err != nil {
		return nil, nil, err
	}
	return respBytes, ctx, nil
}
