package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/event"
	"BrokerBridge/internal/orders"
)

// ParseRawEvent converts a raw transport frame into a typed event. Unknown
// frame types are an error so the reader can count and drop them.
func ParseRawEvent(raw RawEvent) (event.Event, error) {
	switch raw.Type {
	case event.TypeTickPrice:
		return parseTickPrice(raw.Data)
	case event.TypeTickSize:
		return parseTickSize(raw.Data)
	case event.TypeTickGeneric:
		return parseTickGeneric(raw.Data)
	case event.TypeTickString:
		return parseTickString(raw.Data)
	case event.TypeTickOptionModel:
		return parseTickOptionModel(raw.Data)
	case event.TypeTickSnapshotEnd:
		return parseReqIDOnly(raw.Data, func(id int) event.Event { return event.TickSnapshotEnd{ReqID: id} })
	case event.TypeMarketDataType:
		return parseMarketDataType(raw.Data)
	case event.TypeContractDetails:
		return parseContractDetails(raw.Data)
	case event.TypeContractDetailsEnd:
		return parseReqIDOnly(raw.Data, func(id int) event.Event { return event.ContractDetailsEnd{ReqID: id} })
	case event.TypeOptionChainPart:
		return parseOptionChainPart(raw.Data)
	case event.TypeOptionChainEnd:
		return parseReqIDOnly(raw.Data, func(id int) event.Event { return event.OptionChainEnd{ReqID: id} })
	case event.TypePosition:
		return parsePosition(raw.Data)
	case event.TypePositionEnd:
		return event.PositionEnd{}, nil
	case event.TypeAccountSummary:
		return parseAccountSummary(raw.Data)
	case event.TypeAccountSummaryEnd:
		return parseReqIDOnly(raw.Data, func(id int) event.Event { return event.AccountSummaryEnd{ReqID: id} })
	case event.TypeOrderStatus:
		return parseOrderStatus(raw.Data)
	case event.TypeOpenOrder:
		return parseOpenOrder(raw.Data)
	case event.TypeOpenOrderEnd:
		return event.OpenOrderEnd{}, nil
	case event.TypeNextValidID:
		return parseNextValidID(raw.Data)
	case event.TypeGatewayError:
		return parseGatewayError(raw.Data)
	case event.TypeConnectionClosed:
		return event.ConnectionClosed{}, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", raw.Type)
	}
}

// --- JSON wire formats ---
// Field names use snake_case to match the gateway.

type reqIDJSON struct {
	ReqID int `json:"req_id"`
}

func parseReqIDOnly(data []byte, mk func(int) event.Event) (event.Event, error) {
	var j reqIDJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse req_id frame: %w", err)
	}
	return mk(j.ReqID), nil
}

type tickPriceJSON struct {
	ReqID int     `json:"req_id"`
	Field string  `json:"field"`
	Price float64 `json:"price"`
}

func parseTickPrice(data []byte) (event.Event, error) {
	var j tickPriceJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse tick_price: %w", err)
	}
	return event.TickPrice{ReqID: j.ReqID, Field: j.Field, Price: j.Price}, nil
}

type tickSizeJSON struct {
	ReqID int             `json:"req_id"`
	Field string          `json:"field"`
	Size  decimal.Decimal `json:"size"`
}

func parseTickSize(data []byte) (event.Event, error) {
	var j tickSizeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse tick_size: %w", err)
	}
	return event.TickSize{ReqID: j.ReqID, Field: j.Field, Size: j.Size}, nil
}

type tickGenericJSON struct {
	ReqID int     `json:"req_id"`
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

func parseTickGeneric(data []byte) (event.Event, error) {
	var j tickGenericJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse tick_generic: %w", err)
	}
	return event.TickGeneric{ReqID: j.ReqID, Field: j.Field, Value: j.Value}, nil
}

type tickStringJSON struct {
	ReqID int    `json:"req_id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func parseTickString(data []byte) (event.Event, error) {
	var j tickStringJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse tick_string: %w", err)
	}
	return event.TickString{ReqID: j.ReqID, Field: j.Field, Value: j.Value}, nil
}

type tickOptionModelJSON struct {
	ReqID      int     `json:"req_id"`
	ImpliedVol float64 `json:"implied_vol"`
	Delta      float64 `json:"delta"`
	ModelPrice float64 `json:"model_price"`
	Gamma      float64 `json:"gamma"`
	Vega       float64 `json:"vega"`
	Theta      float64 `json:"theta"`
	UndPrice   float64 `json:"und_price"`
}

func parseTickOptionModel(data []byte) (event.Event, error) {
	var j tickOptionModelJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse tick_option_model: %w", err)
	}
	return event.TickOptionModel{
		ReqID:      j.ReqID,
		ImpliedVol: j.ImpliedVol,
		Delta:      j.Delta,
		ModelPrice: j.ModelPrice,
		Gamma:      j.Gamma,
		Vega:       j.Vega,
		Theta:      j.Theta,
		UndPrice:   j.UndPrice,
	}, nil
}

type marketDataTypeJSON struct {
	ReqID int `json:"req_id"`
	Kind  int `json:"kind"`
}

func parseMarketDataType(data []byte) (event.Event, error) {
	var j marketDataTypeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse market_data_type: %w", err)
	}
	return event.MarketDataType{ReqID: j.ReqID, Kind: j.Kind}, nil
}

type contractDetailsJSON struct {
	ReqID   int              `json:"req_id"`
	Details contract.Details `json:"details"`
}

func parseContractDetails(data []byte) (event.Event, error) {
	var j contractDetailsJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse contract_details: %w", err)
	}
	return event.ContractDetails{ReqID: j.ReqID, Details: j.Details}, nil
}

type optionChainPartJSON struct {
	ReqID           int                `json:"req_id"`
	UnderlyingConID int64              `json:"underlying_con_id"`
	Chain           contract.ChainInfo `json:"chain"`
}

func parseOptionChainPart(data []byte) (event.Event, error) {
	var j optionChainPartJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse option_chain_part: %w", err)
	}
	return event.OptionChainPart{ReqID: j.ReqID, UnderlyingConID: j.UnderlyingConID, Chain: j.Chain}, nil
}

type positionJSON struct {
	Account  string              `json:"account"`
	Contract contract.Descriptor `json:"contract"`
	Quantity decimal.Decimal     `json:"quantity"`
	AvgCost  float64             `json:"avg_cost"`
}

func parsePosition(data []byte) (event.Event, error) {
	var j positionJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse position: %w", err)
	}
	return event.Position{Account: j.Account, Contract: j.Contract, Quantity: j.Quantity, AvgCost: j.AvgCost}, nil
}

type accountSummaryJSON struct {
	ReqID    int    `json:"req_id"`
	Account  string `json:"account"`
	Tag      string `json:"tag"`
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

func parseAccountSummary(data []byte) (event.Event, error) {
	var j accountSummaryJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse account_summary: %w", err)
	}
	return event.AccountSummary{
		ReqID: j.ReqID, Account: j.Account, Tag: j.Tag, Value: j.Value, Currency: j.Currency,
	}, nil
}

type orderStatusJSON struct {
	OrderID      int             `json:"order_id"`
	Status       string          `json:"status"`
	Filled       decimal.Decimal `json:"filled"`
	Remaining    decimal.Decimal `json:"remaining"`
	AvgFillPrice float64         `json:"avg_fill_price"`
	PermID       int64           `json:"perm_id"`
	ClientID     int             `json:"client_id"`
	WhyHeld      string          `json:"why_held"`
}

func parseOrderStatus(data []byte) (event.Event, error) {
	var j orderStatusJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse order_status: %w", err)
	}
	return event.OrderStatus{
		OrderID:      j.OrderID,
		Status:       j.Status,
		Filled:       j.Filled,
		Remaining:    j.Remaining,
		AvgFillPrice: j.AvgFillPrice,
		PermID:       j.PermID,
		ClientID:     j.ClientID,
		WhyHeld:      j.WhyHeld,
	}, nil
}

type openOrderJSON struct {
	OrderID  int                 `json:"order_id"`
	Contract contract.Descriptor `json:"contract"`
	Order    orders.Order        `json:"order"`
	Status   string              `json:"status"`
}

func parseOpenOrder(data []byte) (event.Event, error) {
	var j openOrderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse open_order: %w", err)
	}
	return event.OpenOrder{OrderID: j.OrderID, Contract: j.Contract, Order: j.Order, Status: j.Status}, nil
}

type nextValidIDJSON struct {
	OrderID int `json:"order_id"`
}

func parseNextValidID(data []byte) (event.Event, error) {
	var j nextValidIDJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse next_valid_id: %w", err)
	}
	return event.NextValidID{OrderID: j.OrderID}, nil
}

type gatewayErrorJSON struct {
	ReqID   int    `json:"req_id"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func parseGatewayError(data []byte) (event.Event, error) {
	var j gatewayErrorJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse error frame: %w", err)
	}
	return event.GatewayError{ReqID: j.ReqID, Code: j.Code, Message: j.Message}, nil
}
