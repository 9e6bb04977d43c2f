package aggregator

import (
	"time"

	"github.com/status-im/wallet-aggregator/interfaces"
)

// WalletRequest is a single wallet to aggregate
type WalletRequest struct {
	Currency string `json:"currency" yaml:"currency"`
	Address  string `json:"address" yaml:"address"`
}

// WalletRecord is the aggregated view of one WalletRequest
type WalletRecord struct {
	Currency        string  `json:"crypto"`
	Address         string  `json:"address"`
	CryptoValue     float64 `json:"crypto_value"`
	FiatValue       float64 `json:"fiat_value"`
	ConversionPrice float64 `json:"conversion_price"`
	PriceSource     string  `json:"price_source"`
}

// TaskKind tags every dispatched lookup so its result can be routed
type TaskKind string

const (
	KindPrice   TaskKind = "price"
	KindBalance TaskKind = "balance"
)

// task is one planned external call
type task struct {
	kind     TaskKind
	currency string
	// address and wallet are set for balance tasks only
	address string
	wallet  int
}

// outcome is the result slot owned by a single task
type outcome struct {
	price   interfaces.PriceResult
	balance float64
	done    bool
}

// Recorder receives aggregation events, typically to feed metrics
type Recorder interface {
	OnPlanned(calls int)
	OnLookup(kind string, status string)
	OnAggregation(mode string, status string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) OnPlanned(int) {}

func (nopRecorder) OnLookup(string, string) {}

func (nopRecorder) OnAggregation(string, string, time.Duration) {}
