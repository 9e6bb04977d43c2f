package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/wallet-aggregator/aggregator"
)

func TestGetParamLowercase(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?fiat=EUR&source=CoinGecko&empty=", nil)

	assert.Equal(t, "eur", getParamLowercase(req, "fiat"))
	assert.Equal(t, "coingecko", getParamLowercase(req, "source"))
	assert.Equal(t, "", getParamLowercase(req, "empty"))
	assert.Equal(t, "", getParamLowercase(req, "missing"))
	assert.Equal(t, "", getParamLowercase(nil, "fiat"))
}

func TestSplitParam(t *testing.T) {
	tests := []struct {
		name     string
		param    string
		expected []string
	}{
		{
			name:     "keeps the case of addresses",
			param:    "btc:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa,eth:0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
			expected: []string{"btc:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "eth:0x742d35Cc6634C0532925a3b844Bc454e4438f44e"},
		},
		{
			name:     "handles single value",
			param:    "sol:11111111111111111111111111111111",
			expected: []string{"sol:11111111111111111111111111111111"},
		},
		{
			name:     "handles empty string",
			param:    "",
			expected: []string{},
		},
		{
			name:     "trims values",
			param:    " btc:1abc , ltc:Labc ",
			expected: []string{"btc:1abc", "ltc:Labc"},
		},
		{
			name:     "filters out empty values in the list",
			param:    "btc:1abc,,ltc:Labc",
			expected: []string{"btc:1abc", "ltc:Labc"},
		},
		{
			name:     "filters out trailing and leading commas",
			param:    ",btc:1abc,",
			expected: []string{"btc:1abc"},
		},
		{
			name:     "returns empty slice for whitespace and commas only",
			param:    " , , , ",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitParam(tt.param)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetParamBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?a=true&b=0&c=maybe", nil)
	assert.True(t, getParamBool(req, "a", false))
	assert.False(t, getParamBool(req, "b", true))
	assert.True(t, getParamBool(req, "c", true), "invalid value falls back")
	assert.False(t, getParamBool(req, "missing", false))
}

func TestSendJSONResponse(t *testing.T) {
	records := []aggregator.WalletRecord{{
		Currency:        "btc",
		Address:         "1abc",
		CryptoValue:     0.5,
		FiatValue:       30000,
		ConversionPrice: 60000,
		PriceSource:     "binance",
	}}
	server := &Server{}
	recorder := httptest.NewRecorder()

	server.sendJSONResponse(recorder, httptest.NewRequest(http.MethodGet, "/", nil), records)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	body := recorder.Body.String()
	assert.JSONEq(t, `[{"crypto":"btc","address":"1abc","crypto_value":0.5,"fiat_value":30000,"conversion_price":60000,"price_source":"binance"}]`, body)
	assert.False(t, strings.HasSuffix(body, "\n"))
	assert.Equal(t, strconv.Itoa(len(body)), recorder.Header().Get("Content-Length"))

	etag := recorder.Header().Get("ETag")
	require.Len(t, etag, 34, "quoted hex md5")
	assert.Equal(t, byte('"'), etag[0])
}

func TestSendJSONResponse_NotModified(t *testing.T) {
	server := &Server{}

	first := httptest.NewRecorder()
	server.sendJSONResponse(first, httptest.NewRequest(http.MethodGet, "/", nil), []string{"a"})
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	server.sendJSONResponse(second, req, []string{"a"})

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
}
