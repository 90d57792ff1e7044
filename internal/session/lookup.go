package session

import (
	"context"
	"fmt"

	"BrokerBridge/internal/contract"
)

// ContractDetails resolves an instrument and returns its full gateway
// description. Delivery happens on the first matching contract; ambiguous
// lookups simply return that first match.
func (s *Session) ContractDetails(ctx context.Context, desc contract.Descriptor) (contract.Details, error) {
	id := s.NextID()
	return RequestSync[contract.Details](s, id, categoryContract, func() error {
		return s.client.ReqContractDetails(ctx, id, desc)
	})
}

// ResolveContract resolves an instrument to its gateway-assigned contract id.
// The input descriptor is returned enriched, not mutated.
func (s *Session) ResolveContract(ctx context.Context, desc contract.Descriptor) (contract.Descriptor, error) {
	if desc.Resolved() {
		return desc, nil
	}
	id := s.NextID()
	resolved, err := RequestSync[contract.Descriptor](s, id, categoryContract, func() error {
		return s.client.ReqContractDetails(ctx, id, desc)
	})
	if err != nil {
		return contract.Descriptor{}, fmt.Errorf("resolve %s: %w", desc.String(), err)
	}
	return resolved, nil
}

// OptionChain returns the option chain definitions for an underlying, one
// per exchange venue, merged and sealed by the gateway's end marker. The
// underlying must already be resolved to a contract id.
func (s *Session) OptionChain(ctx context.Context, underlying contract.Descriptor) ([]contract.ChainInfo, error) {
	if !underlying.Resolved() {
		return nil, fmt.Errorf("option chain for %s: underlying not resolved", underlying.String())
	}

	id := s.NextID()
	chains, err := RequestSync[[]contract.ChainInfo](s, id, categoryChain, func() error {
		return s.client.ReqOptionChain(ctx, id, underlying.Symbol, underlying.SecType, underlying.ConID)
	})
	if err != nil {
		s.demux.contract.forgetChain(id)
		return nil, err
	}
	return chains, nil
}

// ChainForExchange picks the chain definition for one exchange out of an
// OptionChain result, preferring an exact match.
func ChainForExchange(chains []contract.ChainInfo, exchange string) (contract.ChainInfo, bool) {
	for _, c := range chains {
		if c.Exchange == exchange {
			return c, true
		}
	}
	if len(chains) > 0 {
		return chains[0], true
	}
	return contract.ChainInfo{}, false
}
