package event

import (
	"BrokerBridge/internal/contract"
)

// ContractDetails carries one resolved instrument for a contract lookup.
type ContractDetails struct {
	ReqID   int
	Details contract.Details
}

func (ContractDetails) EventType() string { return TypeContractDetails }

// ContractDetailsEnd terminates a contract lookup's result stream.
type ContractDetailsEnd struct {
	ReqID int
}

func (ContractDetailsEnd) EventType() string { return TypeContractDetailsEnd }

// OptionChainPart is one exchange venue's slice of an option chain. A chain
// request yields one part per venue followed by OptionChainEnd.
type OptionChainPart struct {
	ReqID           int
	UnderlyingConID int64
	Chain           contract.ChainInfo
}

func (OptionChainPart) EventType() string { return TypeOptionChainPart }

// OptionChainEnd terminates an option chain request.
type OptionChainEnd struct {
	ReqID int
}

func (OptionChainEnd) EventType() string { return TypeOptionChainEnd }
