package event

import (
	"github.com/shopspring/decimal"
)

// TickPrice is one price field update for a market data subscription.
// Field names are the marketdata.Field* constants ("bid", "ask", "last", ...).
type TickPrice struct {
	ReqID int
	Field string
	Price float64
}

func (TickPrice) EventType() string { return TypeTickPrice }

// TickSize is one size field update (bid_size, ask_size, last_size).
type TickSize struct {
	ReqID int
	Field string
	Size  decimal.Decimal
}

func (TickSize) EventType() string { return TypeTickSize }

// TickGeneric is a numeric tick outside the price/size families
// (e.g. halted flag, shortable level).
type TickGeneric struct {
	ReqID int
	Field string
	Value float64
}

func (TickGeneric) EventType() string { return TypeTickGeneric }

// TickString is a string-valued tick (e.g. last trade timestamp).
type TickString struct {
	ReqID int
	Field string
	Value string
}

func (TickString) EventType() string { return TypeTickString }

// TickOptionModel is one option-model computation. Individual fields may be
// the gateway's unavailable sentinel; the merge layer filters them.
type TickOptionModel struct {
	ReqID      int
	ImpliedVol float64
	Delta      float64
	ModelPrice float64
	Gamma      float64
	Vega       float64
	Theta      float64
	UndPrice   float64
}

func (TickOptionModel) EventType() string { return TypeTickOptionModel }

// TickSnapshotEnd terminates a one-shot market data snapshot: no further
// ticks will arrive for the id.
type TickSnapshotEnd struct {
	ReqID int
}

func (TickSnapshotEnd) EventType() string { return TypeTickSnapshotEnd }

// MarketDataType announces the data feed class for a subscription
// (1 real-time, 2 frozen, 3 delayed, 4 delayed-frozen).
type MarketDataType struct {
	ReqID int
	Kind  int
}

func (MarketDataType) EventType() string { return TypeMarketDataType }
