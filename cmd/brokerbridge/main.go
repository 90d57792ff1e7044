package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/gateway"
	"BrokerBridge/internal/observability"
	"BrokerBridge/internal/orders"
	"BrokerBridge/internal/session"
)

// Config holds all application configuration, loaded from environment
// variables.
type Config struct {
	// Transport
	Transport    string // "nats" or "ws"
	NATSURL      string
	WSURL        string
	ClientID     string

	// Session
	SyncTimeout    time.Duration
	ConnectTimeout time.Duration

	// HTTP
	MetricsAddr string

	// Demo request
	Symbol string
}

func DefaultConfig() Config {
	return Config{
		Transport:      envOrDefault("BRIDGE_TRANSPORT", "nats"),
		NATSURL:        envOrDefault("BRIDGE_NATS_URL", "nats://localhost:4222"),
		WSURL:          envOrDefault("BRIDGE_WS_URL", "ws://localhost:8765/gw"),
		ClientID:       envOrDefault("BRIDGE_CLIENT_ID", "bridge-1"),
		SyncTimeout:    envDurationOrDefault("BRIDGE_SYNC_TIMEOUT", 6*time.Second),
		ConnectTimeout: envDurationOrDefault("BRIDGE_CONNECT_TIMEOUT", 5*time.Second),
		MetricsAddr:    envOrDefault("BRIDGE_METRICS_ADDR", ":9091"),
		Symbol:         envOrDefault("BRIDGE_DEMO_SYMBOL", "SPY"),
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Println("INFO: BrokerBridge starting...")

	cfg := DefaultConfig()
	logger := observability.NewLogger("bridge")
	metrics := observability.NewMetrics()
	healthChecker := observability.NewHealthChecker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// --- Transport ---
	var transport gateway.Transport
	switch cfg.Transport {
	case "nats":
		transport = gateway.NewNATSTransport(cfg.NATSURL, cfg.ClientID, logger)
	case "ws":
		transport = gateway.NewWSTransport(cfg.WSURL, logger)
	default:
		log.Fatalf("FATAL: unknown transport %q (want nats or ws)", cfg.Transport)
	}

	// --- Session ---
	sess := session.New(transport, session.Config{
		SyncTimeout:    cfg.SyncTimeout,
		ConnectTimeout: cfg.ConnectTimeout,
		Metrics:        metrics,
		Logger:         &logger,
	})

	// --- Metrics + health server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", healthChecker.LivenessHandler)
	metricsMux.HandleFunc("/readyz", healthChecker.ReadinessHandler)
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}
	go func() {
		<-ctx.Done()
		shutCtx, c := context.WithTimeout(context.Background(), 5*time.Second)
		defer c()
		metricsServer.Shutdown(shutCtx)
	}()
	go func() {
		log.Printf("INFO: metrics server listening on %s/metrics", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("ERROR: metrics server: %v", err)
		}
	}()

	// --- Connect with retry ---
	connectCtx, connectCancel := context.WithTimeout(ctx, time.Minute)
	if err := session.EnsureConnected(connectCtx, sess); err != nil {
		connectCancel()
		log.Fatalf("FATAL: gateway connect: %v", err)
	}
	connectCancel()
	defer sess.Disconnect()

	healthChecker.SetReady(true)
	log.Printf("INFO: BrokerBridge ready (session=%s, transport=%s, metrics=%s)",
		sess.ID(), cfg.Transport, cfg.MetricsAddr)

	// --- Order status log ---
	sess.OnOrderStatus(func(u orders.StatusUpdate) {
		log.Printf("INFO: order %d status=%s filled=%s", u.OrderID, u.Status, u.Filled.String())
	})

	// --- Demo: resolve the symbol and take one quote ---
	go func() {
		desc, err := sess.ResolveContract(ctx, contract.Stock(cfg.Symbol))
		if err != nil {
			log.Printf("WARN: resolve %s: %v", cfg.Symbol, err)
			return
		}
		snap, err := sess.Snapshot(ctx, desc)
		if err != nil {
			log.Printf("WARN: snapshot %s: %v", cfg.Symbol, err)
			return
		}
		log.Printf("INFO: %s bid=%.2f ask=%.2f last=%.2f", cfg.Symbol, snap.Bid, snap.Ask, snap.Last)
	}()

	// --- Wait for shutdown signal ---
	sig := <-sigChan
	log.Printf("INFO: received signal %s, shutting down...", sig)

	cancel()
	healthChecker.SetReady(false)
	log.Println("INFO: BrokerBridge stopped")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: bad duration in %s=%q: %v", key, v, err)
		return defaultVal
	}
	return d
}
