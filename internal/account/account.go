// Package account holds the account-scoped payload types: positions and
// account summary values reported by the gateway.
package account

import (
	"github.com/shopspring/decimal"

	"BrokerBridge/internal/contract"
)

// PositionInfo is one held position as reported by a positions sweep.
type PositionInfo struct {
	Account  string
	Contract contract.Descriptor
	Quantity decimal.Decimal
	AvgCost  float64
}

// Long reports whether the position is held long.
func (p PositionInfo) Long() bool { return p.Quantity.IsPositive() }

// SummaryValue is one tag/value pair from an account summary sweep.
type SummaryValue struct {
	Account  string
	Tag      string
	Value    string
	Currency string
}
