package event

// NextValidID is the gateway's one-time announcement, at connection
// establishment, of the next order id this client may use. The id allocator
// adopts it as its floor.
type NextValidID struct {
	OrderID int
}

func (NextValidID) EventType() string { return TypeNextValidID }

// GatewayError is an error report from the gateway. ReqID is the request or
// order the error refers to, or -1 for connection-level conditions.
type GatewayError struct {
	ReqID   int
	Code    int
	Message string
}

func (GatewayError) EventType() string { return TypeGatewayError }

// Benign informational codes the gateway emits routinely: data farm
// connection status churn and lookups for ids it no longer tracks.
var benignErrorCodes = map[int]bool{
	300:  true, // can't find id
	2104: true, // market data farm connected
	2107: true, // historical data farm connected
	2119: true, // market data farm reconnecting
	2158: true, // secure gateway connected
}

// Benign reports whether the error is routine noise rather than a failure.
func (e GatewayError) Benign() bool { return benignErrorCodes[e.Code] }

// ConnectionClosed signals that the gateway dropped the session.
type ConnectionClosed struct{}

func (ConnectionClosed) EventType() string { return TypeConnectionClosed }
