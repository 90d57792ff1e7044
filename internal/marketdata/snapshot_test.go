package marketdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func TestValidPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  bool
	}{
		{"positive", 100.5, true},
		{"zero", 0, false},
		{"negative", -1, false},
		{"sentinel", Unavailable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPrice(tt.price); got != tt.want {
				t.Errorf("ValidPrice(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestApplyPriceFiltersSentinel(t *testing.T) {
	var s Snapshot
	if s.ApplyPrice(FieldBid, Unavailable) {
		t.Error("sentinel applied")
	}
	if s.ApplyPrice(FieldBid, -5) {
		t.Error("negative price applied")
	}
	if !s.ApplyPrice(FieldBid, 10) {
		t.Error("valid price rejected")
	}
	// A later sentinel must not clobber the good value.
	s.ApplyPrice(FieldBid, Unavailable)
	if s.Bid != 10 {
		t.Errorf("bid = %v, want 10", s.Bid)
	}
}

func TestApplyPriceDelayedLastMapsToLast(t *testing.T) {
	var s Snapshot
	s.ApplyPrice(FieldDelayedLast, 42.5)
	if s.Last != 42.5 {
		t.Errorf("last = %v, want 42.5", s.Last)
	}
}

func TestApplyModelDropsUselessTicks(t *testing.T) {
	var s Snapshot

	all := ModelTick{
		ImpliedVol: Unavailable, Delta: Unavailable, ModelPrice: Unavailable,
		Gamma: Unavailable, Vega: Unavailable, Theta: Unavailable,
	}
	if s.ApplyModel(all) {
		t.Error("all-unavailable tick applied")
	}

	partial := ModelTick{ImpliedVol: 0.2, Delta: Unavailable, ModelPrice: 1.5}
	if s.ApplyModel(partial) {
		t.Error("partial tick applied")
	}
	if s.HasModel {
		t.Error("HasModel set by a dropped tick")
	}

	good := ModelTick{ImpliedVol: 0.2, Delta: -0.3, ModelPrice: 1.5, Vega: Unavailable}
	if !s.ApplyModel(good) {
		t.Error("complete tick rejected")
	}
	if !s.HasModel {
		t.Error("HasModel not set")
	}
	if s.Vega != 0 {
		t.Errorf("unavailable vega = %v, want 0", s.Vega)
	}
}

func TestReadyPerMode(t *testing.T) {
	bidOnly := Snapshot{Bid: 10}
	askOnly := Snapshot{Ask: 11}
	both := Snapshot{Bid: 10, Ask: 11}
	lastOnly := Snapshot{Last: 10.5}
	model := Snapshot{ImpliedVol: 0.2, Delta: 0.5, ModelPrice: 1.2, HasModel: true}
	modelPlusAsk := model
	modelPlusAsk.Ask = 11

	tests := []struct {
		name string
		snap Snapshot
		mode FulfillMode
		want bool
	}{
		{"last ready", lastOnly, ModeLast, true},
		{"last not ready on quotes", both, ModeLast, false},
		{"bid ready", bidOnly, ModeBid, true},
		{"bid not ready on ask", askOnly, ModeBid, false},
		{"ask ready", askOnly, ModeAsk, true},
		{"quotes_only needs both", bidOnly, ModeQuotesOnly, false},
		{"quotes_only ready", both, ModeQuotesOnly, true},
		{"quotes_only ignores model", modelPlusAsk, ModeQuotesOnly, false},
		{"snapshot needs both without model", bidOnly, ModeSnapshot, false},
		{"snapshot ready on both", both, ModeSnapshot, true},
		{"snapshot relaxes with model", modelPlusAsk, ModeSnapshot, true},
		{"snapshot model alone not enough", model, ModeSnapshot, false},
		{"model_only ready", model, ModeModelOnly, true},
		{"model_only rejects quotes", both, ModeModelOnly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.snap
			s.Mode = tt.mode
			if got := s.Ready(); got != tt.want {
				t.Errorf("Ready() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMid(t *testing.T) {
	s := Snapshot{Bid: 100, Ask: 102}
	if got := s.Mid(); got != 101 {
		t.Errorf("mid = %v, want 101", got)
	}
	one := Snapshot{Bid: 100}
	if got := one.Mid(); got != 0 {
		t.Errorf("one-sided mid = %v, want 0", got)
	}
}

// Readiness must be monotone: applying more valid data to a snapshot that is
// already ready can never make it unready. The delivery path relies on this
// to check readiness only after merges.
func TestReadyMonotoneUnderMerges(t *testing.T) {
	modes := []FulfillMode{ModeSnapshot, ModeLast, ModeBid, ModeAsk, ModeQuotesOnly, ModeModelOnly}
	priceFields := []string{
		FieldBid, FieldAsk, FieldLast, FieldDelayedLast,
		FieldOpen, FieldClose, FieldHigh, FieldLow,
	}

	rapid.Check(t, func(t *rapid.T) {
		s := Snapshot{Mode: modes[rapid.IntRange(0, len(modes)-1).Draw(t, "mode")]}

		wasReady := false
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "kind") {
			case 0:
				field := priceFields[rapid.IntRange(0, len(priceFields)-1).Draw(t, "field")]
				price := rapid.OneOf(
					rapid.Float64Range(0.01, 1000),
					rapid.Just(0.0),
					rapid.Just(-1.0),
					rapid.Just(Unavailable),
				).Draw(t, "price")
				s.ApplyPrice(field, price)
			case 1:
				s.ApplySize(FieldBidSize, decimal.NewFromInt(rapid.Int64Range(0, 1e6).Draw(t, "size")))
			case 2:
				delta := rapid.OneOf(
					rapid.Float64Range(0.01, 1),
					rapid.Float64Range(-1, -0.01),
				).Draw(t, "delta")
				s.ApplyModel(ModelTick{
					ImpliedVol: rapid.Float64Range(0.01, 5).Draw(t, "iv"),
					Delta:      delta,
					ModelPrice: rapid.Float64Range(0.01, 100).Draw(t, "mp"),
				})
			}

			ready := s.Ready()
			if wasReady && !ready {
				t.Fatalf("snapshot regressed from ready to unready in mode %s: %+v", s.Mode, s)
			}
			wasReady = ready
		}
	})
}
