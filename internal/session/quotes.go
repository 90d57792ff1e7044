package session

import (
	"context"
	"errors"
	"sync"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/marketdata"
)

// requestMarketData runs one synchronous market data request: stage the
// accumulation record, subscribe, wait for the merged snapshot. On timeout
// the subscription is cancelled so the gateway slot is not leaked.
func (s *Session) requestMarketData(ctx context.Context, desc contract.Descriptor, mode marketdata.FulfillMode, snapshot bool) (marketdata.Snapshot, error) {
	id := s.NextID()
	s.demux.market.beginSnapshot(id, desc, mode, false)

	snap, err := RequestSync[marketdata.Snapshot](s, id, categoryMarketData, func() error {
		return s.client.ReqMarketData(ctx, id, desc, snapshot)
	})
	if err != nil {
		s.demux.market.forget(id)
		if errors.Is(err, ErrTimeout) {
			if cancelErr := s.client.CancelMarketData(context.Background(), id); cancelErr != nil {
				s.log.Warn().Err(cancelErr).Int("req_id", id).Msg("cancel after timeout failed")
			}
		}
		return marketdata.Snapshot{}, err
	}
	return snap, nil
}

// Snapshot returns a one-off quote for the instrument: a two-sided quote, or
// a one-sided quote once model data is present for option instruments.
func (s *Session) Snapshot(ctx context.Context, desc contract.Descriptor) (marketdata.Snapshot, error) {
	return s.requestMarketData(ctx, desc, marketdata.ModeSnapshot, true)
}

// Quotes returns a quote requiring both bid and ask, ignoring model data.
func (s *Session) Quotes(ctx context.Context, desc contract.Descriptor) (marketdata.Snapshot, error) {
	return s.requestMarketData(ctx, desc, marketdata.ModeQuotesOnly, true)
}

// Last returns the first last-trade price seen for the instrument.
func (s *Session) Last(ctx context.Context, desc contract.Descriptor) (float64, error) {
	snap, err := s.requestMarketData(ctx, desc, marketdata.ModeLast, true)
	if err != nil {
		return 0, err
	}
	return snap.Last, nil
}

// Bid returns the first bid price seen for the instrument.
func (s *Session) Bid(ctx context.Context, desc contract.Descriptor) (float64, error) {
	snap, err := s.requestMarketData(ctx, desc, marketdata.ModeBid, true)
	if err != nil {
		return 0, err
	}
	return snap.Bid, nil
}

// Ask returns the first ask price seen for the instrument.
func (s *Session) Ask(ctx context.Context, desc contract.Descriptor) (float64, error) {
	snap, err := s.requestMarketData(ctx, desc, marketdata.ModeAsk, true)
	if err != nil {
		return 0, err
	}
	return snap.Ask, nil
}

// ModelData returns the option model computation for an option instrument.
// Model ticks ride the streaming feed rather than one-off snapshots, so the
// subscription stays open until the model arrives and is then cancelled.
func (s *Session) ModelData(ctx context.Context, desc contract.Descriptor) (marketdata.Snapshot, error) {
	return s.requestMarketData(ctx, desc, marketdata.ModeModelOnly, false)
}

// StreamQuotes opens a streaming subscription for the instrument. Every tick
// merge invokes fn with the accumulated snapshot on the reader goroutine.
// The returned stop function cancels the subscription; it is safe to call
// more than once.
func (s *Session) StreamQuotes(ctx context.Context, desc contract.Descriptor, fn TickListener) (func(), error) {
	if !s.running.Load() {
		return nil, ErrNotConnected
	}

	id := s.NextID()
	s.demux.market.beginSnapshot(id, desc, marketdata.ModeSnapshot, true)
	s.demux.market.addListener(id, fn)

	if err := s.client.ReqMarketData(ctx, id, desc, false); err != nil {
		s.demux.market.forget(id)
		return nil, err
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			s.demux.market.forget(id)
			if err := s.client.CancelMarketData(context.Background(), id); err != nil {
				s.log.Warn().Err(err).Int("req_id", id).Msg("cancel stream failed")
			}
		})
	}
	return stop, nil
}
