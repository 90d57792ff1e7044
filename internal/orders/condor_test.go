package orders

import (
	"math"
	"testing"

	"BrokerBridge/internal/contract"
)

func testChain() contract.ChainInfo {
	return contract.ChainInfo{
		Exchange:     "SMART",
		TradingClass: "SPY",
		Multiplier:   "100",
		Strikes:      []float64{420, 430, 440, 450, 460, 470},
		Expirations:  []string{"20260918"},
	}
}

func TestSelectMiddleStrikes(t *testing.T) {
	strikes, err := SelectMiddleStrikes(testChain())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	want := CondorStrikes{430, 440, 450, 460}
	if strikes != want {
		t.Errorf("strikes = %v, want %v", strikes, want)
	}

	thin := contract.ChainInfo{Strikes: []float64{100, 110, 120}}
	if _, err := SelectMiddleStrikes(thin); err == nil {
		t.Error("three-strike chain accepted")
	}
}

func TestCondorLegsBuy(t *testing.T) {
	legs, err := CondorLegs("SPY", "20260918", CondorStrikes{430, 440, 450, 460}, testChain(), true)
	if err != nil {
		t.Fatalf("legs: %v", err)
	}
	if len(legs) != 4 {
		t.Fatalf("legs = %d, want 4", len(legs))
	}

	// Ascending strikes: long put, short put, short call, long call.
	wantActions := []string{ActionBuy, ActionSell, ActionSell, ActionBuy}
	wantRights := []string{contract.RightPut, contract.RightPut, contract.RightCall, contract.RightCall}
	for i, leg := range legs {
		if leg.Action != wantActions[i] {
			t.Errorf("leg %d action = %s, want %s", i, leg.Action, wantActions[i])
		}
		if leg.Option.Right != wantRights[i] {
			t.Errorf("leg %d right = %s, want %s", i, leg.Option.Right, wantRights[i])
		}
		if leg.Option.TradingClass != "SPY" {
			t.Errorf("leg %d trading class = %s", i, leg.Option.TradingClass)
		}
	}
}

func TestCondorLegsSellReversesActions(t *testing.T) {
	legs, err := CondorLegs("SPY", "20260918", CondorStrikes{430, 440, 450, 460}, testChain(), false)
	if err != nil {
		t.Fatalf("legs: %v", err)
	}
	wantActions := []string{ActionSell, ActionBuy, ActionBuy, ActionSell}
	for i, leg := range legs {
		if leg.Action != wantActions[i] {
			t.Errorf("leg %d action = %s, want %s", i, leg.Action, wantActions[i])
		}
	}
}

func TestCondorLegsRejectsBadStrike(t *testing.T) {
	if _, err := CondorLegs("SPY", "20260918", CondorStrikes{0, 440, 450, 460}, testChain(), true); err == nil {
		t.Error("zero strike accepted")
	}
}

func TestComboFromLegsRequiresResolution(t *testing.T) {
	legs, err := CondorLegs("SPY", "20260918", CondorStrikes{430, 440, 450, 460}, testChain(), true)
	if err != nil {
		t.Fatalf("legs: %v", err)
	}
	if _, err := ComboFromLegs("SPY", legs); err == nil {
		t.Fatal("unresolved legs accepted")
	}

	for i := range legs {
		legs[i].Option.ConID = int64(1000 + i)
	}
	combo, err := ComboFromLegs("SPY", legs)
	if err != nil {
		t.Fatalf("combo: %v", err)
	}
	if combo.SecType != contract.SecTypeCombo || len(combo.ComboLegs) != 4 {
		t.Errorf("combo = %+v", combo)
	}
}

func TestFairComboPrice(t *testing.T) {
	legs := []LegSpec{
		{Action: ActionBuy},
		{Action: ActionSell},
		{Action: ActionSell},
		{Action: ActionBuy},
	}
	fair, err := FairComboPrice(legs, []float64{1.0, 2.5, 2.0, 0.5})
	if err != nil {
		t.Fatalf("fair: %v", err)
	}
	// 1.0 - 2.5 - 2.0 + 0.5
	if math.Abs(fair-(-3.0)) > 1e-9 {
		t.Errorf("fair = %v, want -3.0", fair)
	}

	if _, err := FairComboPrice(legs, []float64{1.0, 0, 2.0, 0.5}); err == nil {
		t.Error("missing leg quote accepted")
	}
	if _, err := FairComboPrice(legs, []float64{1.0}); err == nil {
		t.Error("mismatched mid count accepted")
	}
}

func TestCondorLimitPrice(t *testing.T) {
	tests := []struct {
		name   string
		fair   float64
		margin float64
		buy    bool
		want   float64
	}{
		{"buyer shades down", 1.52, 0.10, true, 1.40},
		{"seller shades up", 1.52, 0.10, false, 1.60},
		{"floor at a cent", 0.02, 0.10, true, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CondorLimitPrice(tt.fair, tt.margin, tt.buy)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("limit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCondorOrder(t *testing.T) {
	o := CondorOrder(2, 1.45, true)
	if o.Action != ActionBuy || o.OrderType != TypeLimit {
		t.Errorf("order = %+v", o)
	}
	if o.LimitPrice != 1.45 {
		t.Errorf("limit = %v, want 1.45", o.LimitPrice)
	}
	if o.AlgoStrategy != "Adaptive" {
		t.Errorf("algo = %q", o.AlgoStrategy)
	}
	if !o.Quantity.Equal(MarketBuy(2).Quantity) {
		t.Errorf("quantity = %s, want 2", o.Quantity)
	}
}
