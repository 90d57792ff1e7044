package session

import "sync/atomic"

// Well-known request id bases, partitioned by request category so manually
// chosen ids never collide across categories. Ids within a category are
// drawn from the allocator or chosen by the caller below the next base.
const (
	BaseOrderID      = 0
	OpenOrderID      = 100
	AllOpenOrderID   = 200
	CancelOrderID    = 300
	CancelAllOrderID = 400

	BaseContractID       = 1000
	StockContractID      = 1100
	OptionContractID     = 1200
	FutureContractID     = 1300
	OpenMarketContractID = 1400

	OptionChainID       = 2000
	OptionChainGreeksID = 2100

	MarketDataID = 3000

	SnapshotDataID = 4000

	PositionID = 5000
)

// Metric label values per request category.
const (
	categoryMarketData = "market_data"
	categoryContract   = "contract"
	categoryChain      = "chain"
	categoryOrder      = "order"
	categoryPosition   = "position"
	categoryAccount    = "account"
)

// Allocator hands out unique, monotonically increasing ids. The gateway
// announces an authoritative starting order id once per connection; Advance
// adopts it without ever regressing the counter.
type Allocator struct {
	next atomic.Int64
}

// NewAllocator creates an allocator starting at base.
func NewAllocator(base int) *Allocator {
	a := &Allocator{}
	a.next.Store(int64(base))
	return a
}

// Next returns the current id and increments the counter.
func (a *Allocator) Next() int {
	return int(a.next.Add(1) - 1)
}

// Advance raises the counter to at least announced+1. Stale or duplicate
// announcements (lower than the counter) are ignored.
func (a *Allocator) Advance(announced int) {
	target := int64(announced) + 1
	for {
		cur := a.next.Load()
		if target <= cur {
			return
		}
		if a.next.CompareAndSwap(cur, target) {
			return
		}
	}
}

// Current returns the next id that would be handed out, without consuming it.
func (a *Allocator) Current() int {
	return int(a.next.Load())
}
