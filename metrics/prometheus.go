package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "wallet_aggregator_"

// Service constants
const (
	ServiceCoingecko   = "coingecko"
	ServiceBinance     = "binance"
	ServiceBlockcypher = "blockcypher"
	ServiceSolana      = "solana"
	ServiceEthereum    = "ethereum"
	ServicePriceCache  = "price-cache"
)

var (
	// Upstream request counter per service
	// Cardinality: ~30 (6 services × 5 statuses)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "upstream_requests_total",
			Help: "Total number of requests to upstream price and balance services",
		},
		[]string{"service", "status"},
	)

	// Request latency per endpoint
	// Cardinality: ~12 (6 services × 2 endpoints per service)
	RequestLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "request_latency_seconds",
			Help: "Upstream request latency by service and endpoint",
		},
		[]string{"service", "endpoint"},
	)

	// Rate limit hits counter
	// Cardinality: ~6 (number of services)
	RateLimitCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "rate_limit_hits_total",
			Help: "Total number of rate limit hits per service",
		},
		[]string{"service"},
	)

	// Cache lookups by result
	// Cardinality: ~2 (hit, miss) per cache
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_lookups_total",
			Help: "Number of cache lookups by result",
		},
		[]string{"service", "result"},
	)

	// Service cache size
	// Cardinality: ~1 (number of caches)
	ServiceCacheSizeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "service_cache_size",
			Help: "Number of items in service cache",
		},
		[]string{"service"},
	)

	// Symbols tracked by a streaming price feed
	// Cardinality: ~1 (number of feeds)
	FeedSymbolsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "price_feed_symbols",
			Help: "Number of symbols with a quote in a streaming price feed",
		},
		[]string{"service"},
	)

	// Time of the last applied feed message
	FeedLastUpdateGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "price_feed_last_update_timestamp_seconds",
			Help: "Unix time of the last applied streaming price feed message",
		},
		[]string{"service"},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordUpstreamRequest records a request to the upstream service with its status
func (mw *MetricsWriter) RecordUpstreamRequest(status string) {
	UpstreamRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
	if status == "rate_limited" {
		RateLimitCounter.WithLabelValues(mw.serviceName).Inc()
	}
}

// RecordRequestLatency records the latency of a request to an endpoint
func (mw *MetricsWriter) RecordRequestLatency(endpoint string, duration time.Duration) {
	RequestLatencyHistogram.WithLabelValues(mw.serviceName, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss
func (mw *MetricsWriter) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(mw.serviceName, result).Inc()
}

// RecordCacheSize records the number of items in service cache
func (mw *MetricsWriter) RecordCacheSize(size int) {
	ServiceCacheSizeGauge.WithLabelValues(mw.serviceName).Set(float64(size))
}

// RecordFeedUpdate records the size and time of a streaming feed update
func (mw *MetricsWriter) RecordFeedUpdate(symbols int, at time.Time) {
	FeedSymbolsGauge.WithLabelValues(mw.serviceName).Set(float64(symbols))
	FeedLastUpdateGauge.WithLabelValues(mw.serviceName).Set(float64(at.Unix()))
}

// OnRequest implements coingecko_common.IHttpStatusHandler
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordUpstreamRequest(status)
}
