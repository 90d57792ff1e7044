package session

import (
	"context"
	"fmt"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/marketdata"
	"BrokerBridge/internal/orders"
)

// CondorPlan is a fully priced iron condor ready to submit: the assembled
// combo contract, the resolved legs, and the limit derived from live quotes.
type CondorPlan struct {
	Combo contract.Descriptor
	Legs  []orders.LegSpec
	Fair  float64
	Limit float64
	Order orders.Order
}

// PlanIronCondor builds and prices an iron condor on the underlying symbol
// for the given expiry. It resolves the underlying, fetches its option
// chain, picks four middle strikes, resolves every leg, and prices the combo
// from per-leg quote midpoints shaded by margin.
func (s *Session) PlanIronCondor(ctx context.Context, symbol, expiry string, quantity int64, margin float64, buy bool) (CondorPlan, error) {
	underlying, err := s.ResolveContract(ctx, contract.Stock(symbol))
	if err != nil {
		return CondorPlan{}, fmt.Errorf("condor underlying: %w", err)
	}

	chains, err := s.OptionChain(ctx, underlying)
	if err != nil {
		return CondorPlan{}, fmt.Errorf("condor chain: %w", err)
	}
	chain, ok := ChainForExchange(chains, "SMART")
	if !ok {
		return CondorPlan{}, fmt.Errorf("no option chain for %s", symbol)
	}

	strikes, err := orders.SelectMiddleStrikes(chain)
	if err != nil {
		return CondorPlan{}, fmt.Errorf("condor strikes: %w", err)
	}

	legs, err := orders.CondorLegs(symbol, expiry, strikes, chain, buy)
	if err != nil {
		return CondorPlan{}, err
	}

	mids := make([]float64, len(legs))
	for i := range legs {
		resolved, err := s.ResolveContract(ctx, legs[i].Option)
		if err != nil {
			return CondorPlan{}, fmt.Errorf("condor leg %d: %w", i, err)
		}
		legs[i].Option = resolved

		snap, err := s.Snapshot(ctx, resolved)
		if err != nil {
			return CondorPlan{}, fmt.Errorf("condor leg %d quote: %w", i, err)
		}
		mid := snap.Mid()
		if mid == 0 && marketdata.ValidPrice(snap.Last) {
			mid = snap.Last
		}
		mids[i] = mid
	}

	fair, err := orders.FairComboPrice(legs, mids)
	if err != nil {
		return CondorPlan{}, fmt.Errorf("condor pricing: %w", err)
	}
	limit := orders.CondorLimitPrice(fair, margin, buy)

	combo, err := orders.ComboFromLegs(symbol, legs)
	if err != nil {
		return CondorPlan{}, err
	}

	s.log.Info().Str("symbol", symbol).Str("expiry", expiry).
		Floats64("strikes", strikes[:]).Float64("fair", fair).Float64("limit", limit).
		Msg("condor planned")

	return CondorPlan{
		Combo: combo,
		Legs:  legs,
		Fair:  fair,
		Limit: limit,
		Order: orders.CondorOrder(quantity, limit, buy),
	}, nil
}

// PlaceIronCondor plans and submits an iron condor, returning the gateway's
// first acknowledgement.
func (s *Session) PlaceIronCondor(ctx context.Context, symbol, expiry string, quantity int64, margin float64, buy bool) (orders.StatusUpdate, error) {
	plan, err := s.PlanIronCondor(ctx, symbol, expiry, quantity, margin, buy)
	if err != nil {
		return orders.StatusUpdate{}, err
	}
	return s.PlaceOrder(ctx, plan.Combo, plan.Order)
}
