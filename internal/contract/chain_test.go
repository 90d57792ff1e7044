package contract

import (
	"testing"
)

func TestChainMergeDeduplicates(t *testing.T) {
	a := ChainInfo{
		Exchange:    "SMART",
		Expirations: []string{"20260918", "20261016"},
		Strikes:     []float64{440, 450},
	}
	b := ChainInfo{
		Exchange:    "SMART",
		Expirations: []string{"20261016", "20261120"},
		Strikes:     []float64{450, 460},
	}

	a.Merge(b)

	wantExp := []string{"20260918", "20261016", "20261120"}
	if len(a.Expirations) != len(wantExp) {
		t.Fatalf("expirations = %v, want %v", a.Expirations, wantExp)
	}
	for i := range wantExp {
		if a.Expirations[i] != wantExp[i] {
			t.Errorf("expiration[%d] = %s, want %s", i, a.Expirations[i], wantExp[i])
		}
	}

	wantStrikes := []float64{440, 450, 460}
	if len(a.Strikes) != len(wantStrikes) {
		t.Fatalf("strikes = %v, want %v", a.Strikes, wantStrikes)
	}
	for i := range wantStrikes {
		if a.Strikes[i] != wantStrikes[i] {
			t.Errorf("strike[%d] = %v, want %v", i, a.Strikes[i], wantStrikes[i])
		}
	}
}

func TestNearestStrikes(t *testing.T) {
	chain := ChainInfo{Strikes: []float64{400, 410, 420, 430, 440, 450, 460, 470}}

	got := chain.NearestStrikes(4)
	if len(got) != 4 {
		t.Fatalf("picked %d strikes, want 4", len(got))
	}
	// Centered on the middle of the chain.
	want := []float64{420, 430, 440, 450}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("strike[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	short := ChainInfo{Strikes: []float64{100, 110}}
	if got := short.NearestStrikes(4); len(got) != 2 {
		t.Errorf("short chain picked %d, want all 2", len(got))
	}
}

func TestDescriptorResolved(t *testing.T) {
	if Stock("SPY").Resolved() {
		t.Error("fresh stock descriptor reports resolved")
	}
	d := Stock("SPY")
	d.ConID = 756733
	if !d.Resolved() {
		t.Error("descriptor with conid reports unresolved")
	}
}

func TestOptionBuilder(t *testing.T) {
	opt := Option("SPY", "20260918", 440, RightPut)
	if opt.SecType != SecTypeOption || opt.Strike != 440 || opt.Right != RightPut {
		t.Errorf("option = %+v", opt)
	}
	if opt.Exchange != "SMART" || opt.Currency != "USD" {
		t.Errorf("option defaults = %s/%s", opt.Exchange, opt.Currency)
	}
}
