package binance

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// QuotesManager keeps the last quote per base asset for one quote asset
type QuotesManager struct {
	mu         sync.RWMutex
	quoteAsset string
	// base asset -> quote, e.g. "BTC" for "BTCUSDT"
	quotes map[string]Quote
	// nil watches every base asset
	watch    map[string]bool
	received bool
}

// NewQuotesManager creates a new QuotesManager for quoteAsset (e.g. "USDT")
func NewQuotesManager(quoteAsset string) *QuotesManager {
	return &QuotesManager{
		quoteAsset: strings.ToUpper(quoteAsset),
		quotes:     make(map[string]Quote),
	}
}

// QuoteAsset returns the quote asset prices are expressed in
func (qm *QuotesManager) QuoteAsset() string {
	return qm.quoteAsset
}

// SetWatchList restricts tracking to the given base assets. An empty list
// tracks all of them. Existing quotes are dropped.
func (qm *QuotesManager) SetWatchList(baseSymbols []string) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.quotes = make(map[string]Quote)
	qm.watch = nil
	if len(baseSymbols) == 0 {
		return
	}
	qm.watch = make(map[string]bool, len(baseSymbols))
	for _, base := range baseSymbols {
		qm.watch[strings.ToUpper(base)] = true
	}
}

// WatchList returns the tracked base assets, sorted. Nil means all.
func (qm *QuotesManager) WatchList() []string {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	if qm.watch == nil {
		return nil
	}
	out := make([]string, 0, len(qm.watch))
	for base := range qm.watch {
		out = append(out, base)
	}
	sort.Strings(out)
	return out
}

// Quote returns the latest quote for a base asset
func (qm *QuotesManager) Quote(base string) (Quote, bool) {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	q, ok := qm.quotes[strings.ToUpper(base)]
	return q, ok
}

// Len returns the number of tracked base assets with a quote
func (qm *QuotesManager) Len() int {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return len(qm.quotes)
}

// Ready reports whether at least one ticker message was applied
func (qm *QuotesManager) Ready() bool {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return qm.received
}

// UpdateQuotes applies a ticker array or a single ticker message. Tickers
// with unparsable numbers are skipped and reported in the returned error.
func (qm *QuotesManager) UpdateQuotes(message []byte) error {
	var tickers []Ticker
	if err := json.Unmarshal(message, &tickers); err != nil {
		var ticker Ticker
		if err := json.Unmarshal(message, &ticker); err != nil {
			return fmt.Errorf("failed to unmarshal ticker message: %w", err)
		}
		tickers = []Ticker{ticker}
	}

	now := time.Now()

	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.received = true

	var badSymbols []string
	for i := range tickers {
		ticker := &tickers[i]
		base, ok := strings.CutSuffix(ticker.Symbol, qm.quoteAsset)
		if !ok || base == "" {
			continue
		}
		if qm.watch != nil && !qm.watch[base] {
			continue
		}

		price, err := ticker.LastPrice.Float64()
		if err != nil {
			badSymbols = append(badSymbols, ticker.Symbol)
			continue
		}

		// change and volume are informational
		change, _ := ticker.PriceChangePercent.Float64()
		volume, _ := ticker.Volume24h.Float64()

		qm.quotes[base] = Quote{
			Price:            price,
			PercentChange24h: change,
			Volume24h:        volume,
			UpdatedAt:        now,
		}
	}

	if len(badSymbols) > 0 {
		return fmt.Errorf("failed to parse price for %s", strings.Join(badSymbols, ","))
	}
	return nil
}
