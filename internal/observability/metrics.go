package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bridge.
// Labels: "category" is the request family (market_data, contract, chain,
// order, position, account), "event" is the inbound event type.
type Metrics struct {
	// --- Synchronous bridge ---
	RequestsStarted   *prometheus.CounterVec
	RequestsDelivered *prometheus.CounterVec
	RequestTimeouts   *prometheus.CounterVec
	RequestsInFlight  prometheus.Gauge
	DeliveryLatency   *prometheus.HistogramVec

	// --- Correlation faults ---
	StaleCallbacks         prometheus.Counter
	TypeMismatches         prometheus.Counter
	DuplicateRegistrations prometheus.Counter
	DoubleDeliveries       prometheus.Counter

	// --- Reader / demultiplexer ---
	EventsProcessed *prometheus.CounterVec
	HandlerPanics   prometheus.Counter
	ParseErrors     prometheus.Counter

	// --- Connection ---
	Connected        prometheus.Gauge
	Reconnects       prometheus.Counter
	GatewayErrors    *prometheus.CounterVec
	SnapshotsPartial prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers against an explicit registerer so tests can use
// a private registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	latencyBuckets := []float64{
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 8,
	}

	return &Metrics{
		RequestsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_requests_started_total",
			Help: "Synchronous requests registered, by category",
		}, []string{"category"}),
		RequestsDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_requests_delivered_total",
			Help: "Synchronous requests fulfilled, by category",
		}, []string{"category"}),
		RequestTimeouts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_request_timeouts_total",
			Help: "Synchronous requests that hit the bounded wait, by category",
		}, []string{"category"}),
		RequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bridge_requests_in_flight",
			Help: "Currently registered request ids",
		}),
		DeliveryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bridge_delivery_latency_seconds",
			Help:    "Time from registration to delivery, by category",
			Buckets: latencyBuckets,
		}, []string{"category"}),

		StaleCallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_stale_callbacks_total",
			Help: "Inbound events for ids with no registered record",
		}),
		TypeMismatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_type_mismatches_total",
			Help: "Deliveries rejected because the value shape did not match the record",
		}),
		DuplicateRegistrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_duplicate_registrations_total",
			Help: "Register calls rejected because the id was already in flight",
		}),
		DoubleDeliveries: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_double_deliveries_total",
			Help: "Delivery attempts on an already-fulfilled record (no-ops)",
		}),

		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_events_processed_total",
			Help: "Inbound gateway events dispatched, by event type",
		}, []string{"event"}),
		HandlerPanics: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_handler_panics_total",
			Help: "Event handler panics recovered on the reader goroutine",
		}),
		ParseErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_parse_errors_total",
			Help: "Inbound events dropped because the payload did not parse",
		}),

		Connected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bridge_gateway_connected",
			Help: "1 when the gateway transport is connected",
		}),
		Reconnects: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_gateway_reconnects_total",
			Help: "Connection attempts after the first",
		}),
		GatewayErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_gateway_errors_total",
			Help: "Gateway error events, by severity (benign, error)",
		}, []string{"severity"}),
		SnapshotsPartial: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_snapshots_partial_total",
			Help: "Snapshots delivered incomplete at snapshot-end",
		}),
	}
}
