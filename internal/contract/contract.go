package contract

import "fmt"

// Security type codes as the gateway expects them on the wire.
const (
	SecTypeStock  = "STK"
	SecTypeOption = "OPT"
	SecTypeFuture = "FUT"
	SecTypeIndex  = "IND"
	SecTypeForex  = "CASH"
	SecTypeCombo  = "BAG"
)

// Option rights.
const (
	RightCall = "C"
	RightPut  = "P"
)

// Descriptor identifies a tradable instrument. It is an opaque payload from
// the correlation engine's point of view: the gateway resolves and echoes it,
// the bridge only carries it.
type Descriptor struct {
	ConID        int64      `json:"con_id,omitempty"`
	Symbol       string     `json:"symbol"`
	SecType      string     `json:"sec_type"`
	Exchange     string     `json:"exchange"`
	Currency     string     `json:"currency"`
	Expiry       string     `json:"expiry,omitempty"` // YYYYMMDD or contract month
	Strike       float64    `json:"strike,omitempty"`
	Right        string     `json:"right,omitempty"`
	Multiplier   string     `json:"multiplier,omitempty"`
	TradingClass string     `json:"trading_class,omitempty"`
	LocalSymbol  string     `json:"local_symbol,omitempty"`
	ComboLegs    []ComboLeg `json:"combo_legs,omitempty"`
}

// ComboLeg is one leg of a combo (BAG) instrument.
type ComboLeg struct {
	ConID    int64  `json:"con_id"`
	Ratio    int    `json:"ratio"`
	Action   string `json:"action"` // BUY or SELL
	Exchange string `json:"exchange"`
}

// Details is the full metadata record the gateway returns for a resolved
// instrument. Contract metadata only, no market data.
type Details struct {
	Descriptor     Descriptor `json:"descriptor"`
	MarketName     string     `json:"market_name,omitempty"`
	MinTick        float64    `json:"min_tick,omitempty"`
	ValidExchanges string     `json:"valid_exchanges,omitempty"`
	LongName       string     `json:"long_name,omitempty"`
}

// Resolved reports whether the gateway has assigned a contract id.
func (d Descriptor) Resolved() bool { return d.ConID != 0 }

func (d Descriptor) String() string {
	switch d.SecType {
	case SecTypeOption:
		return fmt.Sprintf("%s %s %s %.2f%s", d.Symbol, d.SecType, d.Expiry, d.Strike, d.Right)
	case SecTypeFuture:
		return fmt.Sprintf("%s %s %s", d.Symbol, d.SecType, d.Expiry)
	default:
		return fmt.Sprintf("%s %s", d.Symbol, d.SecType)
	}
}

// Stock builds a stock descriptor routed through SMART in USD.
func Stock(symbol string) Descriptor {
	return Descriptor{
		Symbol:   symbol,
		SecType:  SecTypeStock,
		Exchange: "SMART",
		Currency: "USD",
	}
}

// Option builds an option descriptor. Expiry is YYYYMMDD, right is
// RightCall or RightPut. Multiplier defaults to 100.
func Option(symbol, expiry string, strike float64, right string) Descriptor {
	return Descriptor{
		Symbol:     symbol,
		SecType:    SecTypeOption,
		Exchange:   "SMART",
		Currency:   "USD",
		Expiry:     expiry,
		Strike:     strike,
		Right:      right,
		Multiplier: "100",
	}
}

// Future builds a futures descriptor for the given contract month.
func Future(symbol, contractMonth, exchange string) Descriptor {
	return Descriptor{
		Symbol:   symbol,
		SecType:  SecTypeFuture,
		Exchange: exchange,
		Currency: "USD",
		Expiry:   contractMonth,
	}
}

// Combo builds a multi-leg (BAG) descriptor from resolved legs.
func Combo(symbol string, legs []ComboLeg) Descriptor {
	return Descriptor{
		Symbol:    symbol,
		SecType:   SecTypeCombo,
		Exchange:  "SMART",
		Currency:  "USD",
		ComboLegs: legs,
	}
}
