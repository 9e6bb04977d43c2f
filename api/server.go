package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/aggregator"
	"github.com/status-im/wallet-aggregator/cache"
	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
)

// Aggregator is the aggregation entry point served by the API
type Aggregator interface {
	Aggregate(ctx context.Context, wallets []aggregator.WalletRequest, fiat string, opts interfaces.Options) ([]aggregator.WalletRecord, error)
}

// HealthReporter reports component health by name
type HealthReporter interface {
	Health() map[string]bool
}

// CacheStatsReporter exposes price cache statistics on /health
type CacheStatsReporter interface {
	Stats() cache.ServiceStats
}

// Option configures optional Server parts
type Option func(*Server)

// WithCacheStats adds the cache state to /health
func WithCacheStats(c CacheStatsReporter) Option {
	return func(s *Server) {
		s.cache = c
	}
}

type Server struct {
	cfg        config.ServerConfig
	defaults   config.AggregatorConfig
	aggregator Aggregator
	health     HealthReporter
	cache      CacheStatsReporter
	logger     *zap.Logger

	server   *http.Server
	listener net.Listener
}

func New(cfg config.ServerConfig, defaults config.AggregatorConfig, agg Aggregator, health HealthReporter, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:        cfg,
		defaults:   defaults,
		aggregator: agg,
		health:     health,
		logger:     logger.Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with every endpoint registered
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/wallets/balances", s.handleWalletBalances).Methods(http.MethodGet, http.MethodPost)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// Start binds the port and serves in the background. A bind error is
// returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return err
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("Server starting",
		zap.String("addr", listener.Addr().String()),
		zap.String("metrics", "/metrics"))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address, empty before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
