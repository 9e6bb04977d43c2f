package coingecko_common

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	// Base URL for public API
	COINGECKO_PUBLIC_URL = "https://api.coingecko.com"
	// Base URL for Pro API
	COINGECKO_PRO_URL = "https://pro-api.coingecko.com"

	proKeyParam  = "x_cg_pro_api_key"
	demoKeyParam = "x_cg_demo_api_key"
)

// BaseURLForKey returns the pro URL for pro keys and the public URL otherwise.
// Empty overrides fall back to the CoinGecko hosts.
func BaseURLForKey(publicURL, proURL string, keyType KeyType) string {
	if keyType == ProKey {
		if proURL != "" {
			return proURL
		}
		return COINGECKO_PRO_URL
	}
	if publicURL != "" {
		return publicURL
	}
	return COINGECKO_PUBLIC_URL
}

// CoingeckoRequestBuilder builds GET requests against a CoinGecko endpoint
type CoingeckoRequestBuilder struct {
	baseURL   string
	apiPath   string
	params    url.Values
	apiKey    APIKey
	userAgent string
	headers   http.Header
}

// NewCoingeckoRequestBuilder creates a new base request builder for CoinGecko endpoints
func NewCoingeckoRequestBuilder(baseURL, apiPath string) *CoingeckoRequestBuilder {
	rb := &CoingeckoRequestBuilder{
		baseURL:   baseURL,
		apiPath:   apiPath,
		params:    url.Values{},
		headers:   http.Header{},
		userAgent: "wallet-aggregator",
	}
	rb.headers.Set("Accept", "application/json")
	return rb
}

// With sets a query parameter; empty values are skipped
func (rb *CoingeckoRequestBuilder) With(key, value string) *CoingeckoRequestBuilder {
	if value != "" {
		rb.params.Set(key, value)
	}
	return rb
}

// WithApiKey adds the key parameter matching the key type
func (rb *CoingeckoRequestBuilder) WithApiKey(key APIKey) *CoingeckoRequestBuilder {
	rb.apiKey = key
	return rb
}

// WithHeader adds a custom HTTP header
func (rb *CoingeckoRequestBuilder) WithHeader(name, value string) *CoingeckoRequestBuilder {
	rb.headers.Set(name, value)
	return rb
}

// WithUserAgent sets the User-Agent header
func (rb *CoingeckoRequestBuilder) WithUserAgent(userAgent string) *CoingeckoRequestBuilder {
	rb.userAgent = userAgent
	return rb
}

// BuildURL builds the complete URL for the request
func (rb *CoingeckoRequestBuilder) BuildURL() string {
	query := url.Values{}
	for k, v := range rb.params {
		query[k] = v
	}

	if rb.apiKey.Key != "" {
		switch rb.apiKey.Type {
		case ProKey:
			query.Set(proKeyParam, rb.apiKey.Key)
		case DemoKey:
			query.Set(demoKeyParam, rb.apiKey.Key)
		}
	}

	full := strings.TrimRight(rb.baseURL, "/") + "/" + strings.TrimLeft(rb.apiPath, "/")
	if encoded := query.Encode(); encoded != "" {
		full += "?" + encoded
	}
	return full
}

// Build creates the request bound to ctx
func (rb *CoingeckoRequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rb.BuildURL(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", rb.userAgent)
	for key, values := range rb.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}
