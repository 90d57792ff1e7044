package marketdata

import (
	"math"

	"github.com/shopspring/decimal"
)

// Unavailable is the gateway's reserved "field not available" sentinel.
// A field carrying it means "not yet known", never a literal price.
const Unavailable = math.MaxFloat64

// ValidPrice reports whether p is a usable price: positive and not the
// unavailable sentinel.
func ValidPrice(p float64) bool {
	return p > 0 && p != Unavailable
}

// FulfillMode decides which accumulated fields a Snapshot needs before it may
// be delivered to a waiting caller.
type FulfillMode int

const (
	// ModeSnapshot is the default: a full two-sided quote, relaxed to a
	// one-sided quote once model data is in hand. Option quotes and model
	// computations arrive as independent streams; demanding both a two-sided
	// quote and model data would stall forever on thinly-quoted strikes.
	ModeSnapshot FulfillMode = iota
	// ModeLast fulfills on the first last-trade price.
	ModeLast
	// ModeBid fulfills on the first bid.
	ModeBid
	// ModeAsk fulfills on the first ask.
	ModeAsk
	// ModeQuotesOnly needs both bid and ask, model data ignored.
	ModeQuotesOnly
	// ModeModelOnly needs valid model data, quotes optional.
	ModeModelOnly
)

func (m FulfillMode) String() string {
	switch m {
	case ModeSnapshot:
		return "snapshot"
	case ModeLast:
		return "last"
	case ModeBid:
		return "bid"
	case ModeAsk:
		return "ask"
	case ModeQuotesOnly:
		return "quotes_only"
	case ModeModelOnly:
		return "model_only"
	default:
		return "unknown"
	}
}

// Price tick field names as they appear on the wire.
const (
	FieldBid         = "bid"
	FieldAsk         = "ask"
	FieldLast        = "last"
	FieldDelayedLast = "delayed_last"
	FieldOpen        = "open"
	FieldClose       = "close"
	FieldHigh        = "high"
	FieldLow         = "low"
	FieldBidSize     = "bid_size"
	FieldAskSize     = "ask_size"
	FieldLastSize    = "last_size"
)

// ModelTick carries one option-model computation from the gateway. Fields may
// individually be Unavailable.
type ModelTick struct {
	ImpliedVol float64
	Delta      float64
	ModelPrice float64
	Gamma      float64
	Vega       float64
	Theta      float64
	UndPrice   float64
}

// AllUnavailable reports whether every field of the tick is the sentinel;
// such ticks carry no information and are dropped wholesale.
func (t ModelTick) AllUnavailable() bool {
	return t.ImpliedVol == Unavailable && t.Delta == Unavailable &&
		t.ModelPrice == Unavailable && t.Gamma == Unavailable &&
		t.Vega == Unavailable && t.Theta == Unavailable
}

// Partial reports whether the tick is missing delta or model price. Partial
// model ticks are ignored; a later tick carries the complete computation.
func (t ModelTick) Partial() bool {
	return t.Delta == Unavailable || t.ModelPrice == Unavailable
}

// Snapshot accumulates market data for one request id. It is mutated
// incrementally by the reader goroutine as independent tick events arrive in
// any order or subset, and read once when delivered.
type Snapshot struct {
	// Quote fields
	Bid   float64
	Ask   float64
	Last  float64
	Open  float64
	Close float64
	High  float64
	Low   float64

	// Size fields
	BidSize  decimal.Decimal
	AskSize  decimal.Decimal
	LastSize decimal.Decimal

	// Option model fields
	ImpliedVol float64
	Delta      float64
	Gamma      float64
	Vega       float64
	Theta      float64
	ModelPrice float64
	UndPrice   float64
	HasModel   bool

	// Meta
	Mode      FulfillMode
	Fulfilled bool
	Cancelled bool
	Streaming bool
}

// ApplyPrice merges one price tick into the snapshot. Sentinel and
// non-positive prices are filtered: the prior value stays untouched.
// Returns true when a field actually changed.
func (s *Snapshot) ApplyPrice(field string, price float64) bool {
	if !ValidPrice(price) {
		return false
	}
	switch field {
	case FieldBid:
		s.Bid = price
	case FieldAsk:
		s.Ask = price
	case FieldLast, FieldDelayedLast:
		s.Last = price
	case FieldOpen:
		s.Open = price
	case FieldClose:
		s.Close = price
	case FieldHigh:
		s.High = price
	case FieldLow:
		s.Low = price
	default:
		return false
	}
	return true
}

// ApplySize merges one size tick into the snapshot.
func (s *Snapshot) ApplySize(field string, size decimal.Decimal) bool {
	switch field {
	case FieldBidSize:
		s.BidSize = size
	case FieldAskSize:
		s.AskSize = size
	case FieldLastSize:
		s.LastSize = size
	default:
		return false
	}
	return true
}

// ApplyModel merges an option-model tick. Whole-sentinel and partial ticks
// are dropped; individual sentinel fields merge as zero.
func (s *Snapshot) ApplyModel(t ModelTick) bool {
	if t.AllUnavailable() || t.Partial() {
		return false
	}
	s.ImpliedVol = zeroIfUnavailable(t.ImpliedVol)
	s.Delta = zeroIfUnavailable(t.Delta)
	s.Gamma = zeroIfUnavailable(t.Gamma)
	s.Vega = zeroIfUnavailable(t.Vega)
	s.Theta = zeroIfUnavailable(t.Theta)
	s.ModelPrice = zeroIfUnavailable(t.ModelPrice)
	s.UndPrice = zeroIfUnavailable(t.UndPrice)
	s.HasModel = true
	return true
}

func zeroIfUnavailable(v float64) float64 {
	if v == Unavailable {
		return 0
	}
	return v
}

// HasBidAsk reports whether both sides of the quote are present.
func (s *Snapshot) HasBidAsk() bool { return s.Bid > 0 && s.Ask > 0 }

// HasModelData reports whether the snapshot carries a meaningful model
// computation: flag set, IV and model price positive, delta nonzero.
func (s *Snapshot) HasModelData() bool {
	return s.HasModel && s.ImpliedVol > 0 && s.ModelPrice > 0 && s.Delta != 0
}

// Ready evaluates the mode's readiness predicate over the accumulated fields.
// It is side-effect free and monotone: once true for a given accumulation
// state, adding more valid fields never makes it false.
func (s *Snapshot) Ready() bool {
	switch s.Mode {
	case ModeLast:
		return s.Last > 0
	case ModeBid:
		return s.Bid > 0
	case ModeAsk:
		return s.Ask > 0
	case ModeQuotesOnly:
		return s.HasBidAsk()
	case ModeSnapshot:
		if s.HasModel {
			return s.Bid > 0 || s.Ask > 0
		}
		return s.HasBidAsk()
	case ModeModelOnly:
		return s.HasModelData()
	default:
		return false
	}
}

// Mid returns the bid/ask midpoint, or 0 when either side is missing.
func (s *Snapshot) Mid() float64 {
	if !s.HasBidAsk() {
		return 0
	}
	return (s.Bid + s.Ask) / 2
}
