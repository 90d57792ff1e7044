package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildersSetActionAndType(t *testing.T) {
	tests := []struct {
		name       string
		order      Order
		wantAction string
		wantType   string
	}{
		{"market buy", MarketBuy(10), ActionBuy, TypeMarket},
		{"market sell", MarketSell(10), ActionSell, TypeMarket},
		{"limit buy", LimitBuy(10, 99.5), ActionBuy, TypeLimit},
		{"limit sell", LimitSell(10, 99.5), ActionSell, TypeLimit},
		{"stop sell", StopSell(10, 95), ActionSell, TypeStop},
		{"stop limit sell", StopLimitSell(10, 95, 94.5), ActionSell, TypeStopLimit},
		{"trailing stop sell", TrailingStopSell(10, 2.5), ActionSell, TypeTrail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.order.Action != tt.wantAction {
				t.Errorf("action = %s, want %s", tt.order.Action, tt.wantAction)
			}
			if tt.order.OrderType != tt.wantType {
				t.Errorf("type = %s, want %s", tt.order.OrderType, tt.wantType)
			}
			if !tt.order.Quantity.Equal(decimal.NewFromInt(10)) {
				t.Errorf("quantity = %s, want 10", tt.order.Quantity)
			}
			if !tt.order.Transmit {
				t.Error("order not marked transmit")
			}
		})
	}
}

func TestBuilderPrices(t *testing.T) {
	if o := LimitBuy(1, 50.25); o.LimitPrice != 50.25 {
		t.Errorf("limit = %v", o.LimitPrice)
	}
	if o := StopSell(1, 45); o.AuxPrice != 45 {
		t.Errorf("stop trigger = %v", o.AuxPrice)
	}
	o := StopLimitSell(1, 45, 44.5)
	if o.AuxPrice != 45 || o.LimitPrice != 44.5 {
		t.Errorf("stop limit = %v/%v", o.AuxPrice, o.LimitPrice)
	}
	if o := TrailingStopSell(1, 2.5); o.TrailAmount != 2.5 || o.TIF != TIFGTC {
		t.Errorf("trail = %+v", o)
	}
}

func TestClientRefUniquePerOrder(t *testing.T) {
	a := MarketBuy(1)
	b := MarketBuy(1)
	if a.ClientRef == uuid.Nil || b.ClientRef == uuid.Nil {
		t.Fatal("client ref not set")
	}
	if a.ClientRef == b.ClientRef {
		t.Error("two orders share a client ref")
	}
}
