// Package gateway is the boundary to the external brokerage service: the
// Transport abstraction, the outbound request client, the raw-frame parser,
// and the NATS and WebSocket transport adapters.
package gateway

import (
	"context"
	"encoding/json"
	"time"
)

// RawEvent is one inbound frame from the gateway, parsed far enough to know
// its type. The session's reader goroutine converts it into a typed event.
type RawEvent struct {
	Type     string
	Data     []byte
	Received time.Time
}

// Request is the outbound envelope. Fire-and-forget: correlation back to the
// caller happens purely through ReqID on later inbound events.
type Request struct {
	Type    string          `json:"type"`
	ReqID   int             `json:"req_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewRequest marshals payload into a Request envelope.
func NewRequest(reqType string, reqID int, payload any) (Request, error) {
	req := Request{Type: reqType, ReqID: reqID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Request{}, err
		}
		req.Payload = raw
	}
	return req, nil
}

// Transport moves envelopes to and from the gateway. Implementations must
// deliver all inbound frames on the single channel returned by Events and
// close that channel when the connection is gone, so the reader goroutine
// always wakes up. Send must be safe for concurrent callers.
type Transport interface {
	// Connect opens the transport. Calling Connect on an open transport is
	// a no-op returning nil.
	Connect(ctx context.Context) error

	// Send dispatches one outbound request.
	Send(ctx context.Context, req Request) error

	// Events returns the inbound frame channel. The same channel is returned
	// for the lifetime of one connection.
	Events() <-chan RawEvent

	// IsConnected reports whether the transport is currently open.
	IsConnected() bool

	// Close tears the connection down and closes the events channel.
	// Idempotent.
	Close() error
}
