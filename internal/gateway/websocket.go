package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// wsFrame is the JSON envelope the gateway speaks over WebSocket, both
// directions.
type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WSTransport is a JSON-over-WebSocket adapter to a brokerage gateway.
// One read-pump goroutine feeds the events channel; writes are serialized
// by a mutex because gorilla connections allow one concurrent writer.
type WSTransport struct {
	url string
	log zerolog.Logger

	mu        sync.Mutex
	writeMu   sync.Mutex
	conn      *websocket.Conn
	events    chan RawEvent
	connected bool
	wg        sync.WaitGroup
}

// NewWSTransport creates a transport for the gateway's WebSocket endpoint.
func NewWSTransport(url string, log zerolog.Logger) *WSTransport {
	return &WSTransport{url: url, log: log}
}

// Connect dials the gateway and starts the read pump.
func (t *WSTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected {
		return nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return fmt.Errorf("ws dial %s: status %d: %w", t.url, resp.StatusCode, err)
		}
		return fmt.Errorf("ws dial %s: %w", t.url, err)
	}

	t.conn = conn
	t.events = make(chan RawEvent, 1024)
	t.connected = true

	t.wg.Add(1)
	go t.readPump(conn, t.events)

	t.log.Info().Str("url", t.url).Msg("websocket transport connected")
	return nil
}

// readPump drains the connection until it errors, then closes the events
// channel so the session's reader goroutine always wakes up.
func (t *WSTransport) readPump(conn *websocket.Conn, events chan RawEvent) {
	defer t.wg.Done()
	defer close(events)

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.mu.Lock()
			stillOpen := t.connected
			t.mu.Unlock()
			if stillOpen {
				t.log.Warn().Err(err).Msg("websocket read failed, connection gone")
			}
			return
		}
		raw := RawEvent{
			Type:     frame.Type,
			Data:     frame.Data,
			Received: time.Now(),
		}
		select {
		case events <- raw:
		default:
			// Reader stalled or already gone; never wedge the pump, or
			// Close would deadlock waiting for it.
			t.log.Warn().Str("type", raw.Type).Msg("event channel full, frame dropped")
		}
	}
}

// Send writes one request envelope.
func (t *WSTransport) Send(ctx context.Context, req Request) error {
	t.mu.Lock()
	conn := t.conn
	connected := t.connected
	t.mu.Unlock()

	if !connected || conn == nil {
		return fmt.Errorf("websocket transport not connected")
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request %s: %w", req.Type, err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	} else {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	}
	if err := conn.WriteJSON(wsFrame{Type: req.Type, Data: data}); err != nil {
		return fmt.Errorf("ws write %s: %w", req.Type, err)
	}
	return nil
}

// Events returns the inbound frame channel.
func (t *WSTransport) Events() <-chan RawEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.events
}

// IsConnected reports whether the socket is open.
func (t *WSTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Close sends a close frame, tears the socket down, and waits for the read
// pump to exit. Idempotent.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()
		return nil
	}
	t.connected = false
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	t.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.writeMu.Unlock()

	err := conn.Close()
	t.wg.Wait()
	t.log.Info().Msg("websocket transport closed")
	return err
}
