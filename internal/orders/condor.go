package orders

import (
	"fmt"
	"math"
	"sort"

	"BrokerBridge/internal/contract"
)

// CondorStrikes are the four strikes of an iron condor, ascending:
// long put, short put, short call, long call.
type CondorStrikes [4]float64

// LegSpec is one unresolved condor leg: the option to resolve plus the
// action to take on it.
type LegSpec struct {
	Option contract.Descriptor
	Action string
}

// SelectMiddleStrikes picks four strikes around the middle of the chain for
// a balanced condor. Fails when the chain lists fewer than four strikes.
func SelectMiddleStrikes(chain contract.ChainInfo) (CondorStrikes, error) {
	var out CondorStrikes
	picked := chain.NearestStrikes(4)
	if len(picked) < 4 {
		return out, fmt.Errorf("need at least 4 strikes, chain has %d", len(chain.Strikes))
	}
	copy(out[:], picked)
	return out, nil
}

// CondorLegs builds the four option legs of an iron condor on the given
// underlying symbol and expiry. buy=true yields the debit structure
// (buy wings, sell body); buy=false reverses every action.
func CondorLegs(symbol, expiry string, strikes CondorStrikes, chain contract.ChainInfo, buy bool) ([]LegSpec, error) {
	sorted := strikes
	sort.Float64s(sorted[:])
	for _, k := range sorted {
		if k <= 0 {
			return nil, fmt.Errorf("invalid condor strike %v", k)
		}
	}

	mk := func(strike float64, right string) contract.Descriptor {
		opt := contract.Option(symbol, expiry, strike, right)
		if chain.TradingClass != "" {
			opt.TradingClass = chain.TradingClass
		}
		if chain.Multiplier != "" {
			opt.Multiplier = chain.Multiplier
		}
		return opt
	}

	legs := []LegSpec{
		{Option: mk(sorted[0], contract.RightPut), Action: ActionBuy},
		{Option: mk(sorted[1], contract.RightPut), Action: ActionSell},
		{Option: mk(sorted[2], contract.RightCall), Action: ActionSell},
		{Option: mk(sorted[3], contract.RightCall), Action: ActionBuy},
	}
	if !buy {
		for i := range legs {
			if legs[i].Action == ActionBuy {
				legs[i].Action = ActionSell
			} else {
				legs[i].Action = ActionBuy
			}
		}
	}
	return legs, nil
}

// ComboFromLegs assembles the combo (BAG) descriptor from resolved legs.
// Every leg must already carry a gateway contract id.
func ComboFromLegs(symbol string, legs []LegSpec) (contract.Descriptor, error) {
	comboLegs := make([]contract.ComboLeg, 0, len(legs))
	for _, leg := range legs {
		if !leg.Option.Resolved() {
			return contract.Descriptor{}, fmt.Errorf("unresolved condor leg %s", leg.Option)
		}
		comboLegs = append(comboLegs, contract.ComboLeg{
			ConID:    leg.Option.ConID,
			Ratio:    1,
			Action:   leg.Action,
			Exchange: leg.Option.Exchange,
		})
	}
	return contract.Combo(symbol, comboLegs), nil
}

// FairComboPrice aggregates per-leg midpoints into a net combo price:
// bought legs add, sold legs subtract. legMids must align with legs.
func FairComboPrice(legs []LegSpec, legMids []float64) (float64, error) {
	if len(legs) != len(legMids) {
		return 0, fmt.Errorf("leg/mid count mismatch: %d vs %d", len(legs), len(legMids))
	}
	var fair float64
	for i, leg := range legs {
		if legMids[i] <= 0 {
			return 0, fmt.Errorf("no usable quote for leg %s", leg.Option)
		}
		if leg.Action == ActionBuy {
			fair += legMids[i]
		} else {
			fair -= legMids[i]
		}
	}
	return fair, nil
}

// CondorLimitPrice applies the execution margin to a fair price and rounds
// to the 0.05 tick, floored at 0.01. Buyers shade down, sellers shade up.
func CondorLimitPrice(fair, margin float64, buy bool) float64 {
	px := fair + margin
	if buy {
		px = fair - margin
	}
	px = math.Round(px/0.05) * 0.05
	if px < 0.01 {
		px = 0.01
	}
	return px
}

// CondorOrder builds the adaptive limit order for the assembled combo.
func CondorOrder(quantity int64, limitPrice float64, buy bool) Order {
	action := ActionSell
	if buy {
		action = ActionBuy
	}
	o := base(action, quantity)
	o.OrderType = TypeLimit
	o.LimitPrice = limitPrice
	o.AlgoStrategy = "Adaptive"
	return o
}
