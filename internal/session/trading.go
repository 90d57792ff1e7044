package session

import (
	"context"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/orders"
)

// PlaceOrder submits the order and blocks until the gateway acknowledges it
// with a first status report. The status is an acknowledgement, not a fill;
// subscribe with OnOrderStatus to follow the rest of the lifecycle.
func (s *Session) PlaceOrder(ctx context.Context, desc contract.Descriptor, o orders.Order) (orders.StatusUpdate, error) {
	orderID := s.NextID()
	return RequestSync[orders.StatusUpdate](s, orderID, categoryOrder, func() error {
		return s.client.PlaceOrder(ctx, orderID, desc, o)
	})
}

// CancelOrder asks the gateway to cancel orderID. Fire-and-forget: the
// cancellation outcome arrives as a status update. Any caller still blocked
// on the placement is released to its timeout by dropping the registration.
func (s *Session) CancelOrder(ctx context.Context, orderID int) error {
	s.table.remove(orderID)
	return s.client.CancelOrder(ctx, orderID)
}

// OpenOrders sweeps all open orders across client sessions and returns the
// complete set once the gateway's end marker seals it. The sweep id
// registration gates staging: a concurrent sweep is rejected before it can
// touch the in-flight sweep's buffer.
func (s *Session) OpenOrders(ctx context.Context) ([]orders.OpenOrderInfo, error) {
	return RequestSync[[]orders.OpenOrderInfo](s, AllOpenOrderID, categoryOrder, func() error {
		s.demux.order.beginSweep()
		if err := s.client.ReqAllOpenOrders(ctx); err != nil {
			s.demux.order.abortSweep()
			return err
		}
		return nil
	})
}

// OnOrderStatus registers fn for every order status update for the life of
// the session. fn runs on the reader goroutine and must not block.
func (s *Session) OnOrderStatus(fn StatusListener) {
	s.demux.order.addStatusListener(fn)
}
