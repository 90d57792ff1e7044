package session

import (
	"context"

	"BrokerBridge/internal/account"
)

// Positions sweeps all held positions on the account. The sweep is an
// account-wide broadcast without a per-call id; results correlate to the
// well-known positions id and the subscription is cancelled after the end
// marker. As with OpenOrders, registration of the well-known id gates
// staging, so a concurrent sweep is rejected without clearing the buffer.
func (s *Session) Positions(ctx context.Context) ([]account.PositionInfo, error) {
	return RequestSync[[]account.PositionInfo](s, PositionID, categoryPosition, func() error {
		s.demux.account.beginPositions()
		if err := s.client.ReqPositions(ctx); err != nil {
			s.demux.account.abortPositions()
			return err
		}
		return nil
	})
}

// AccountSummary returns the requested tag/value pairs for the account.
// tags is comma separated, e.g. "NetLiquidation,BuyingPower".
func (s *Session) AccountSummary(ctx context.Context, tags string) ([]account.SummaryValue, error) {
	id := s.NextID()
	values, err := RequestSync[[]account.SummaryValue](s, id, categoryAccount, func() error {
		return s.client.ReqAccountSummary(ctx, id, tags)
	})
	if err != nil {
		s.demux.account.forgetSummary(id)
		return nil, err
	}
	return values, nil
}
