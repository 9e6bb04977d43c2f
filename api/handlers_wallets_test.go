package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/wallet-aggregator/aggregator"
	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/prices"
)

type aggregateCall struct {
	wallets []aggregator.WalletRequest
	fiat    string
	opts    interfaces.Options
	ctx     context.Context
}

// stubAggregator records the last call and answers with a record per wallet
type stubAggregator struct {
	last aggregateCall
	err  error
}

func (s *stubAggregator) Aggregate(ctx context.Context, wallets []aggregator.WalletRequest, fiat string, opts interfaces.Options) ([]aggregator.WalletRecord, error) {
	s.last = aggregateCall{wallets: wallets, fiat: fiat, opts: opts, ctx: ctx}
	if s.err != nil {
		return nil, s.err
	}
	if len(wallets) == 0 {
		return nil, aggregator.ErrNoWallets
	}
	records := make([]aggregator.WalletRecord, 0, len(wallets))
	for _, w := range wallets {
		records = append(records, aggregator.WalletRecord{
			Currency:        w.Currency,
			Address:         w.Address,
			CryptoValue:     2,
			FiatValue:       20,
			ConversionPrice: 10,
			PriceSource:     "coingecko",
		})
	}
	return records, nil
}

func newTestServer(agg Aggregator) *Server {
	return New(config.ServerConfig{}, config.AggregatorConfig{Fiat: "usd"}, agg, nil, nil)
}

func TestHandleWalletBalances_Post(t *testing.T) {
	agg := &stubAggregator{}
	handler := newTestServer(agg).Handler()

	body := `{"fiat":"EUR","concurrent":true,"extra":{"skip_cache":true},"wallets":[
		{"currency":"BTC","address":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"},
		{"currency":"eth","address":" 0x742d35Cc6634C0532925a3b844Bc454e4438f44e "}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/balances", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	assert.Equal(t, "eur", agg.last.fiat)
	assert.True(t, agg.last.opts.Concurrent)
	assert.True(t, agg.last.opts.Bool("skip_cache"))
	assert.Equal(t, []aggregator.WalletRequest{
		{Currency: "btc", Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"},
		{Currency: "eth", Address: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"},
	}, agg.last.wallets)

	var records []aggregator.WalletRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "btc", records[0].Currency)
	assert.Equal(t, 20.0, records[1].FiatValue)
}

func TestHandleWalletBalances_Get(t *testing.T) {
	agg := &stubAggregator{}
	handler := newTestServer(agg).Handler()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/wallets/balances?wallets=btc:1abc,SOL:11111111111111111111111111111111&source=Binance", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usd", agg.last.fiat, "default fiat")
	assert.False(t, agg.last.opts.Concurrent)
	assert.Equal(t, "binance", agg.last.opts.String("source"))
	assert.Equal(t, "sol", agg.last.wallets[1].Currency)
	assert.Equal(t, "11111111111111111111111111111111", agg.last.wallets[1].Address)
}

func TestHandleWalletBalances_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "malformed body", method: http.MethodPost, target: "/api/v1/wallets/balances", body: `{"wallets":`},
		{name: "unknown field", method: http.MethodPost, target: "/api/v1/wallets/balances", body: `{"wallet":[]}`},
		{name: "missing address", method: http.MethodPost, target: "/api/v1/wallets/balances", body: `{"wallets":[{"currency":"btc"}]}`},
		{name: "no wallets", method: http.MethodPost, target: "/api/v1/wallets/balances", body: `{"wallets":[]}`},
		{name: "bad wallet arg", method: http.MethodGet, target: "/api/v1/wallets/balances?wallets=btc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer(&stubAggregator{}).Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleWalletBalances_LookupErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: interfaces.ErrUnsupportedCurrency, want: http.StatusUnprocessableEntity},
		{err: interfaces.ErrInvalidAddress, want: http.StatusUnprocessableEntity},
		{err: interfaces.ErrRateLimited, want: http.StatusTooManyRequests},
		{err: interfaces.ErrUnavailable, want: http.StatusBadGateway},
		{err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{err: &aggregator.InternalConsistencyError{Kind: aggregator.KindPrice, Reason: "missing"}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.want, " ", tt.err), func(t *testing.T) {
			agg := &stubAggregator{err: &aggregator.LookupFailure{
				Kind:     aggregator.KindBalance,
				Currency: "btc",
				Address:  "1abc",
				Err:      tt.err,
			}}
			if errors.As(tt.err, new(*aggregator.InternalConsistencyError)) {
				agg.err = tt.err
			}

			rec := httptest.NewRecorder()
			newTestServer(agg).Handler().ServeHTTP(rec,
				httptest.NewRequest(http.MethodGet, "/api/v1/wallets/balances?wallets=btc:1abc", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleWalletBalances_Timeout(t *testing.T) {
	agg := &stubAggregator{}
	server := New(config.ServerConfig{}, config.AggregatorConfig{Fiat: "usd", Timeout: time.Minute}, agg, nil, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wallets/balances?wallets=btc:1abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	deadline, ok := agg.last.ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

type funcProvider struct {
	interfaces.PriceLookupFunc
	name string
}

func (p funcProvider) Name() string { return p.name }

func failingProvider(name string, cause error) prices.Provider {
	return funcProvider{name: name, PriceLookupFunc: func(_ context.Context, currency, fiat string, _ interfaces.Options) (interfaces.PriceResult, error) {
		return interfaces.PriceResult{}, &interfaces.PriceLookupError{Currency: currency, Fiat: fiat, Source: name, Err: cause}
	}}
}

func TestHandleWalletBalances_ProviderChainStatus(t *testing.T) {
	tests := []struct {
		name   string
		causes [2]error
		want   int
	}{
		{
			name:   "outage outranks unsupported fiat",
			causes: [2]error{interfaces.ErrUnsupportedFiat, interfaces.ErrUnavailable},
			want:   http.StatusBadGateway,
		},
		{
			name:   "rate limit outranks unsupported currency",
			causes: [2]error{interfaces.ErrRateLimited, interfaces.ErrUnsupportedCurrency},
			want:   http.StatusTooManyRequests,
		},
		{
			name:   "every provider rejects the input",
			causes: [2]error{interfaces.ErrUnsupportedFiat, interfaces.ErrUnsupportedCurrency},
			want:   http.StatusUnprocessableEntity,
		},
	}

	balances := interfaces.BalanceLookupFunc(func(context.Context, string, string, interfaces.Options) (float64, error) {
		return 1, nil
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := prices.NewChain(nil,
				failingProvider("binance", tt.causes[0]),
				failingProvider("coingecko", tt.causes[1]),
			)
			server := newTestServer(aggregator.New(chain, balances))

			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec,
				httptest.NewRequest(http.MethodGet, "/api/v1/wallets/balances?wallets=btc:1abc&fiat=eur", nil))

			assert.Equal(t, tt.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], "coingecko")
		})
	}
}
