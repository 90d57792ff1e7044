package gateway

import (
	"testing"

	"BrokerBridge/internal/event"
)

func TestParseTickPrice(t *testing.T) {
	raw := RawEvent{
		Type: event.TypeTickPrice,
		Data: []byte(`{"req_id": 3001, "field": "bid", "price": 450.25}`),
	}
	ev, err := ParseRawEvent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tick, ok := ev.(event.TickPrice)
	if !ok {
		t.Fatalf("parsed %T, want TickPrice", ev)
	}
	if tick.ReqID != 3001 || tick.Field != "bid" || tick.Price != 450.25 {
		t.Errorf("tick = %+v", tick)
	}
}

func TestParseTickSizeDecimal(t *testing.T) {
	raw := RawEvent{
		Type: event.TypeTickSize,
		Data: []byte(`{"req_id": 1, "field": "bid_size", "size": "1500.5"}`),
	}
	ev, err := ParseRawEvent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tick := ev.(event.TickSize)
	if tick.Size.String() != "1500.5" {
		t.Errorf("size = %s, want 1500.5", tick.Size)
	}
}

func TestParseOptionModel(t *testing.T) {
	raw := RawEvent{
		Type: event.TypeTickOptionModel,
		Data: []byte(`{"req_id": 2, "implied_vol": 0.25, "delta": -0.4, "model_price": 2.1, "und_price": 450}`),
	}
	ev, err := ParseRawEvent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := ev.(event.TickOptionModel)
	if m.ImpliedVol != 0.25 || m.Delta != -0.4 || m.UndPrice != 450 {
		t.Errorf("model = %+v", m)
	}
}

func TestParseGatewayErrorBenign(t *testing.T) {
	raw := RawEvent{
		Type: event.TypeGatewayError,
		Data: []byte(`{"req_id": -1, "code": 2104, "message": "Market data farm connection is OK"}`),
	}
	ev, err := ParseRawEvent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ge := ev.(event.GatewayError)
	if !ge.Benign() {
		t.Error("code 2104 should be benign")
	}

	raw.Data = []byte(`{"req_id": 5, "code": 200, "message": "No security definition"}`)
	ev, err = ParseRawEvent(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.(event.GatewayError).Benign() {
		t.Error("code 200 should not be benign")
	}
}

func TestParseEndMarkers(t *testing.T) {
	tests := []struct {
		typ  string
		data string
	}{
		{event.TypeTickSnapshotEnd, `{"req_id": 9}`},
		{event.TypeContractDetailsEnd, `{"req_id": 9}`},
		{event.TypeOptionChainEnd, `{"req_id": 9}`},
		{event.TypeAccountSummaryEnd, `{"req_id": 9}`},
		{event.TypePositionEnd, `{}`},
		{event.TypeOpenOrderEnd, `{}`},
		{event.TypeConnectionClosed, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			ev, err := ParseRawEvent(RawEvent{Type: tt.typ, Data: []byte(tt.data)})
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if ev.EventType() != tt.typ {
				t.Errorf("EventType() = %s, want %s", ev.EventType(), tt.typ)
			}
		})
	}
}

func TestParseUnknownType(t *testing.T) {
	if _, err := ParseRawEvent(RawEvent{Type: "mystery", Data: []byte(`{}`)}); err == nil {
		t.Fatal("unknown type parsed without error")
	}
}

func TestParseMalformedPayload(t *testing.T) {
	if _, err := ParseRawEvent(RawEvent{Type: event.TypeTickPrice, Data: []byte(`{broken`)}); err == nil {
		t.Fatal("malformed payload parsed without error")
	}
}

func TestNewRequestEnvelope(t *testing.T) {
	req, err := NewRequest("req_market_data", 42, map[string]any{"snapshot": true})
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if req.Type != "req_market_data" || req.ReqID != 42 {
		t.Errorf("envelope = %+v", req)
	}
	if len(req.Payload) == 0 {
		t.Error("payload not marshaled")
	}

	empty, err := NewRequest("cancel_market_data", 42, nil)
	if err != nil {
		t.Fatalf("new request nil payload: %v", err)
	}
	if empty.Payload != nil {
		t.Errorf("payload = %s, want empty", empty.Payload)
	}
}
