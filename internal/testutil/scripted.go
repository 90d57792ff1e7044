package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"BrokerBridge/internal/gateway"
)

// ScriptedTransport is an in-memory gateway.Transport for tests: it records
// every outbound request and lets the test inject inbound events. An
// OnSend hook can script automatic responses to requests.
type ScriptedTransport struct {
	// OnSend, when set, runs synchronously for every outbound request.
	// Set it before Connect; typical scripts push response events.
	OnSend func(req gateway.Request)

	mu        sync.Mutex
	connected bool
	closed    bool
	sent      []gateway.Request
	events    chan gateway.RawEvent
}

// NewScriptedTransport creates a disconnected scripted transport.
func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{
		events: make(chan gateway.RawEvent, 256),
	}
}

func (t *ScriptedTransport) Connect(context.Context) error {
	t.mu.Lock()
	t.connected = true
	t.mu.Unlock()
	return nil
}

func (t *ScriptedTransport) Send(_ context.Context, req gateway.Request) error {
	t.mu.Lock()
	t.sent = append(t.sent, req)
	hook := t.OnSend
	t.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	return nil
}

func (t *ScriptedTransport) Events() <-chan gateway.RawEvent { return t.events }

func (t *ScriptedTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected && !t.closed
}

func (t *ScriptedTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.connected = false
	close(t.events)
	return nil
}

// Push injects one inbound event, marshaling v as the frame payload.
// Panics on a marshal failure; scripted payloads are always marshalable.
func (t *ScriptedTransport) Push(eventType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.events <- gateway.RawEvent{Type: eventType, Data: data}
}

// Sent returns a copy of every request sent so far.
func (t *ScriptedTransport) Sent() []gateway.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]gateway.Request, len(t.sent))
	copy(out, t.sent)
	return out
}

// SentOfType returns the sent requests with the given type discriminator.
func (t *ScriptedTransport) SentOfType(reqType string) []gateway.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []gateway.Request
	for _, r := range t.sent {
		if r.Type == reqType {
			out = append(out, r)
		}
	}
	return out
}
