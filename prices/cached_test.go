package prices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/wallet-aggregator/cache"
	"github.com/status-im/wallet-aggregator/interfaces"
	mock_interfaces "github.com/status-im/wallet-aggregator/interfaces/mocks"
)

var btcUSD = interfaces.PriceResult{
	Sources: []interfaces.Source{{Name: "coingecko"}},
	Price:   64000,
}

func TestCached_HitAndMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mock_interfaces.NewMockPriceLookupService(ctrl)
	next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", gomock.Any()).Return(btcUSD, nil).Times(1)

	cached := NewCached(next, cache.NewService(cache.DefaultCacheConfig()), time.Minute, nil)

	for i := 0; i < 3; i++ {
		result, err := cached.GetPrice(context.Background(), "btc", "usd", interfaces.Options{})
		require.NoError(t, err)
		assert.Equal(t, btcUSD, result)
	}
}

func TestCached_KeyIncludesFiat(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mock_interfaces.NewMockPriceLookupService(ctrl)
	next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", gomock.Any()).Return(btcUSD, nil)
	next.EXPECT().GetPrice(gomock.Any(), "btc", "eur", gomock.Any()).Return(interfaces.PriceResult{Price: 59000}, nil)

	cached := NewCached(next, cache.NewService(cache.DefaultCacheConfig()), 0, nil)

	usd, err := cached.GetPrice(context.Background(), "btc", "usd", interfaces.Options{})
	require.NoError(t, err)
	eur, err := cached.GetPrice(context.Background(), "btc", "eur", interfaces.Options{})
	require.NoError(t, err)
	assert.NotEqual(t, usd.Price, eur.Price)
	assert.Equal(t, "price:btc:eur", CacheKey("btc", "eur", ""))
	assert.Equal(t, "price:btc:eur:binance", CacheKey("btc", "eur", "Binance"))
}

func TestCached_SkipCacheRefreshesEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mock_interfaces.NewMockPriceLookupService(ctrl)
	fresh := interfaces.PriceResult{Sources: []interfaces.Source{{Name: "binance"}}, Price: 65000}

	gomock.InOrder(
		next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", gomock.Any()).Return(btcUSD, nil),
		next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", gomock.Any()).Return(fresh, nil),
	)

	svc := cache.NewService(cache.DefaultCacheConfig())
	cached := NewCached(next, svc, time.Minute, nil)
	skip := interfaces.Options{Extra: map[string]any{SkipCacheOption: true}}

	first, err := cached.GetPrice(context.Background(), "btc", "usd", interfaces.Options{})
	require.NoError(t, err)
	assert.Equal(t, btcUSD, first)

	refreshed, err := cached.GetPrice(context.Background(), "btc", "usd", skip)
	require.NoError(t, err)
	assert.Equal(t, fresh, refreshed)

	// later lookups see the refreshed entry without asking the provider
	again, err := cached.GetPrice(context.Background(), "btc", "usd", interfaces.Options{})
	require.NoError(t, err)
	assert.Equal(t, fresh, again)
	assert.Equal(t, 1, svc.Stats().GoCacheItems)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mock_interfaces.NewMockPriceLookupService(ctrl)
	lookupErr := &interfaces.PriceLookupError{Currency: "btc", Fiat: "usd", Source: "coingecko", Err: interfaces.ErrRateLimited}

	gomock.InOrder(
		next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", gomock.Any()).Return(interfaces.PriceResult{}, lookupErr),
		next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", gomock.Any()).Return(btcUSD, nil),
	)

	cached := NewCached(next, cache.NewService(cache.DefaultCacheConfig()), time.Minute, nil)

	_, err := cached.GetPrice(context.Background(), "btc", "usd", interfaces.Options{})
	assert.Same(t, lookupErr, err)

	result, err := cached.GetPrice(context.Background(), "btc", "usd", interfaces.Options{})
	require.NoError(t, err)
	assert.Equal(t, btcUSD, result)
}

func TestCached_PinnedSourceIsCachedApart(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mock_interfaces.NewMockPriceLookupService(ctrl)
	pinned := interfaces.Options{Extra: map[string]any{"source": "binance"}}
	next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", interfaces.Options{}).Return(btcUSD, nil).Times(1)
	next.EXPECT().GetPrice(gomock.Any(), "btc", "usd", pinned).Return(interfaces.PriceResult{
		Sources: []interfaces.Source{{Name: "binance"}},
		Price:   64100,
	}, nil).Times(1)

	cached := NewCached(next, cache.NewService(cache.DefaultCacheConfig()), time.Minute, nil)

	for i := 0; i < 2; i++ {
		result, err := cached.GetPrice(context.Background(), "btc", "usd", interfaces.Options{})
		require.NoError(t, err)
		assert.Equal(t, "coingecko", result.Sources[0].Name)

		result, err = cached.GetPrice(context.Background(), "btc", "usd", pinned)
		require.NoError(t, err)
		assert.Equal(t, "binance", result.Sources[0].Name)
	}
}
