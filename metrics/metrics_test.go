package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsWriter_RecordUpstreamRequest(t *testing.T) {
	mw := NewMetricsWriter("test-upstream")
	assert.Equal(t, "test-upstream", mw.GetServiceName())

	mw.RecordUpstreamRequest("success")
	mw.OnRequest("success")
	mw.RecordUpstreamRequest("rate_limited")

	assert.Equal(t, 2.0, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("test-upstream", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("test-upstream", "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(RateLimitCounter.WithLabelValues("test-upstream")))
}

func TestMetricsWriter_Cache(t *testing.T) {
	mw := NewMetricsWriter("test-cache")

	mw.RecordCacheLookup(true)
	mw.RecordCacheLookup(false)
	mw.RecordCacheLookup(false)
	mw.RecordCacheSize(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test-cache", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test-cache", "miss")))
	assert.Equal(t, 7.0, testutil.ToFloat64(ServiceCacheSizeGauge.WithLabelValues("test-cache")))
}

func TestAggregationRecorder(t *testing.T) {
	r := NewAggregationRecorder()

	before := testutil.ToFloat64(LookupsTotal.WithLabelValues("price", "success"))
	r.OnLookup("price", "success")
	r.OnPlanned(4)
	r.OnAggregation("concurrent", "success", 150*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(LookupsTotal.WithLabelValues("price", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(AggregationDurationHistogram))
}

func TestMetricsWriter_RecordFeedUpdate(t *testing.T) {
	mw := NewMetricsWriter("test-feed")

	mw.RecordFeedUpdate(3, time.Unix(1700000000, 0))

	assert.Equal(t, 3.0, testutil.ToFloat64(FeedSymbolsGauge.WithLabelValues("test-feed")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(FeedLastUpdateGauge.WithLabelValues("test-feed")))
}
