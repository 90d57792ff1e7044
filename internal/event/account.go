package event

import (
	"github.com/shopspring/decimal"

	"BrokerBridge/internal/contract"
)

// Position is one held position reported during a positions sweep. Position
// sweeps are account-wide broadcasts; they correlate to the well-known
// positions request id rather than a per-call id.
type Position struct {
	Account  string
	Contract contract.Descriptor
	Quantity decimal.Decimal
	AvgCost  float64
}

func (Position) EventType() string { return TypePosition }

// PositionEnd terminates a positions sweep.
type PositionEnd struct{}

func (PositionEnd) EventType() string { return TypePositionEnd }

// AccountSummary is one tag/value pair of an account summary sweep.
type AccountSummary struct {
	ReqID    int
	Account  string
	Tag      string
	Value    string
	Currency string
}

func (AccountSummary) EventType() string { return TypeAccountSummary }

// AccountSummaryEnd terminates an account summary sweep.
type AccountSummaryEnd struct {
	ReqID int
}

func (AccountSummaryEnd) EventType() string { return TypeAccountSummaryEnd }
