package gateway_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"BrokerBridge/internal/gateway"
	"BrokerBridge/internal/testutil"
)

// Requires a running NATS server; skipped unless INTEGRATION_TEST is set.
func TestNATSTransportRoundTrip(t *testing.T) {
	testutil.RequireIntegration(t)

	url := testutil.TestNATSURL()
	gw, err := nats.Connect(url)
	if err != nil {
		t.Skipf("nats not available at %s: %v", url, err)
	}
	defer gw.Close()

	transport := gateway.NewNATSTransport(url, "it-client", zerolog.Nop())
	if err := transport.Connect(context.Background()); err != nil {
		t.Fatalf("transport connect: %v", err)
	}
	defer transport.Close()

	// Outbound: requests land on the per-type request subject.
	reqCh := make(chan *nats.Msg, 1)
	sub, err := gw.ChanSubscribe("broker.gw.req.req_market_data", reqCh)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Unsubscribe()
	gw.Flush()

	req, err := gateway.NewRequest("req_market_data", 3001, map[string]any{"snapshot": true})
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if err := transport.Send(context.Background(), req); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case msg := <-reqCh:
		var got gateway.Request
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		if got.Type != "req_market_data" || got.ReqID != 3001 {
			t.Errorf("request = %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request never arrived on the request subject")
	}

	// Inbound: frames published on the session's event subjects surface on
	// the events channel typed by the last subject token.
	payload, _ := json.Marshal(map[string]any{"req_id": 3001, "field": "bid", "price": 10.5})
	if err := gw.Publish("broker.gw.evt.it-client.tick_price", payload); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	gw.Flush()

	select {
	case raw := <-transport.Events():
		if raw.Type != "tick_price" {
			t.Errorf("event type = %s, want tick_price", raw.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never surfaced on the transport channel")
	}
}
