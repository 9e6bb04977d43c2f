package binance

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/events"
	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/metrics"
)

// SourceName is reported in PriceResult.Sources
const SourceName = "binance"

// Service streams Binance tickers and answers usd price lookups from the
// last seen quote
type Service struct {
	cfg           config.BinanceConfig
	quotes        *QuotesManager
	wsClient      *WebSocketClient
	metricsWriter *metrics.MetricsWriter
	logger        *zap.Logger

	feed *events.Feed
}

func NewService(cfg config.BinanceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	quoteAsset := cfg.QuoteAsset
	if quoteAsset == "" {
		quoteAsset = "USDT"
	}

	s := &Service{
		cfg:           cfg,
		quotes:        NewQuotesManager(quoteAsset),
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceBinance),
		logger:        logger.Named(SourceName),

		feed: events.NewFeed(),
	}
	s.wsClient = NewWebSocketClient(cfg.WSURL, cfg.ReconnectDelay, s.onMessage, s.onError)
	return s
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting ticker stream", zap.String("quote_asset", s.quotes.QuoteAsset()))
	s.wsClient.Start(ctx)
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	s.wsClient.Stop()
}

// SetWatchList restricts the tracked base assets
func (s *Service) SetWatchList(baseSymbols []string) {
	s.quotes.SetWatchList(baseSymbols)
}

// WatchList returns the tracked base assets; nil tracks every pair
func (s *Service) WatchList() []string {
	return s.quotes.WatchList()
}

// SubscribeOnQuotesUpdate delivers a FeedUpdate after every applied ticker message
func (s *Service) SubscribeOnQuotesUpdate() *events.Subscription {
	return s.feed.Subscribe()
}

// LastUpdate returns the most recent applied ticker message, if any
func (s *Service) LastUpdate() (events.FeedUpdate, bool) {
	return s.feed.Last()
}

// Healthy reports whether the stream delivered at least one message
func (s *Service) Healthy() bool {
	return s.quotes.Ready()
}

// Name returns the source name
func (s *Service) Name() string {
	return SourceName
}

// GetPrice implements interfaces.PriceLookupService. Only usd is served,
// through the configured stable coin quote asset.
func (s *Service) GetPrice(_ context.Context, currency, fiat string, _ interfaces.Options) (interfaces.PriceResult, error) {
	fail := func(err error) (interfaces.PriceResult, error) {
		return interfaces.PriceResult{}, &interfaces.PriceLookupError{
			Currency: currency,
			Fiat:     fiat,
			Source:   SourceName,
			Err:      err,
		}
	}

	if !strings.EqualFold(fiat, "usd") {
		return fail(interfaces.ErrUnsupportedFiat)
	}
	if !s.quotes.Ready() {
		return fail(interfaces.ErrUnavailable)
	}

	base := strings.ToUpper(strings.TrimSpace(currency))
	quote, ok := s.quotes.Quote(base)
	if !ok {
		return fail(interfaces.ErrUnsupportedCurrency)
	}

	return interfaces.PriceResult{
		Sources: []interfaces.Source{{
			Name: SourceName,
			URL:  "https://www.binance.com/en/trade/" + base + "_" + s.quotes.QuoteAsset(),
		}},
		Price: quote.Price,
	}, nil
}

func (s *Service) onMessage(message []byte) {
	if err := s.quotes.UpdateQuotes(message); err != nil {
		s.metricsWriter.RecordUpstreamRequest("error")
		s.logger.Warn("Failed to apply ticker message", zap.Error(err))
		return
	}
	s.metricsWriter.RecordUpstreamRequest("success")
	s.feed.Publish(events.FeedUpdate{
		Feed:    SourceName,
		Symbols: s.quotes.Len(),
		At:      time.Now(),
	})
}

func (s *Service) onError(err error) {
	s.metricsWriter.RecordUpstreamRequest("unavailable")
	s.logger.Warn("Ticker stream error, reconnecting",
		zap.Error(err),
		zap.Duration("delay", s.wsClient.reconnectDelay))
}
