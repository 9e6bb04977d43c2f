package balances

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	cg "github.com/status-im/wallet-aggregator/coingecko_common"
	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/metrics"
)

// BlockCypher reports balances in the smallest unit; every supported coin
// has eight decimals
const blockCypherUnitsPerCoin = 1e8

// BlockCypher serves UTXO chains through the BlockCypher address API
type BlockCypher struct {
	baseURL       string
	token         string
	httpClient    *cg.HTTPClient
	limiter       *rate.Limiter
	metricsWriter *metrics.MetricsWriter
}

type blockCypherBalance struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// NewBlockCypher creates the backend
func NewBlockCypher(cfg config.BlockCypherConfig) *BlockCypher {
	opts := cg.DefaultClientOptions()
	if cfg.RequestTimeout > 0 {
		opts.RequestTimeout = cfg.RequestTimeout
	}

	var limiter *rate.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimitPerMinute)), 1)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.blockcypher.com"
	}

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceBlockcypher)
	return &BlockCypher{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         cfg.Token,
		httpClient:    cg.NewHTTPClient(opts, metricsWriter, nil),
		limiter:       limiter,
		metricsWriter: metricsWriter,
	}
}

func (b *BlockCypher) Name() string {
	return metrics.ServiceBlockcypher
}

// Balance returns the confirmed balance of address
func (b *BlockCypher) Balance(ctx context.Context, currency, address string) (float64, error) {
	if address == "" {
		return 0, interfaces.ErrInvalidAddress
	}

	endpoint := fmt.Sprintf("%s/v1/%s/main/addrs/%s/balance", b.baseURL, url.PathEscape(currency), url.PathEscape(address))
	if b.token != "" {
		endpoint += "?token=" + url.QueryEscape(b.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	body, duration, err := b.httpClient.ExecuteRequest(req)
	b.metricsWriter.RecordRequestLatency("addrs/balance", duration)
	if err != nil {
		var statusErr *cg.StatusError
		if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusBadRequest || statusErr.StatusCode == http.StatusNotFound) {
			return 0, fmt.Errorf("%w: %v", interfaces.ErrInvalidAddress, err)
		}
		return 0, err
	}

	var resp blockCypherBalance
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: decode balance: %v", interfaces.ErrUnavailable, err)
	}

	return float64(resp.Balance) / blockCypherUnitsPerCoin, nil
}
