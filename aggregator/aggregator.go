package aggregator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/interfaces"
)

const (
	modeSequential = "sequential"
	modeConcurrent = "concurrent"
)

// Aggregator joins balances and fiat prices for a set of wallets
type Aggregator struct {
	prices    interfaces.PriceLookupService
	balances  interfaces.BalanceLookupService
	poolSizer PoolSizer
	logger    *zap.Logger
	recorder  Recorder
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithPoolSizer overrides the worker pool sizing used in concurrent mode
func WithPoolSizer(sizer PoolSizer) Option {
	return func(a *Aggregator) {
		if sizer != nil {
			a.poolSizer = sizer
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(recorder Recorder) Option {
	return func(a *Aggregator) {
		if recorder != nil {
			a.recorder = recorder
		}
	}
}

// New creates an Aggregator on top of the two lookup services
func New(prices interfaces.PriceLookupService, balances interfaces.BalanceLookupService, opts ...Option) *Aggregator {
	a := &Aggregator{
		prices:    prices,
		balances:  balances,
		poolSizer: DefaultPoolSize,
		logger:    zap.NewNop(),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("aggregator")
	return a
}

// Aggregate fetches the balance of every wallet and the fiat price of every
// distinct currency, then joins them into one record per wallet, in input order.
// It either returns a record for every wallet or fails with the first lookup error.
func (a *Aggregator) Aggregate(ctx context.Context, wallets []WalletRequest, fiat string, opts interfaces.Options) ([]WalletRecord, error) {
	if len(wallets) == 0 {
		return nil, ErrNoWallets
	}

	startTime := time.Now()
	mode := modeSequential
	if opts.Concurrent {
		mode = modeConcurrent
	}
	logger := a.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("fiat", fiat),
		zap.String("mode", mode),
	)

	currencies := uniqueCurrencies(wallets)
	tasks := planTasks(wallets, currencies)
	a.recorder.OnPlanned(len(tasks))

	if opts.Verbose {
		logger.Info("Need to make external calls",
			zap.Int("calls", len(tasks)),
			zap.Int("price_calls", len(currencies)),
			zap.Int("balance_calls", len(wallets)))
	} else {
		logger.Debug("Planned external calls", zap.Int("calls", len(tasks)))
	}

	var (
		outcomes []outcome
		err      error
	)
	if opts.Concurrent {
		outcomes, err = a.fetchConcurrently(ctx, tasks, fiat, opts)
	} else {
		outcomes, err = a.fetchSequentially(ctx, tasks, fiat, opts)
	}
	if err != nil {
		a.recorder.OnAggregation(mode, "error", time.Since(startTime))
		logger.Warn("Aggregation failed", zap.Error(err))
		return nil, err
	}

	records, err := join(wallets, tasks, outcomes)
	if err != nil {
		a.recorder.OnAggregation(mode, "error", time.Since(startTime))
		logger.Error("Aggregation join failed", zap.Error(err))
		return nil, err
	}

	duration := time.Since(startTime)
	a.recorder.OnAggregation(mode, "success", duration)
	logger.Debug("Aggregation completed",
		zap.Int("wallets", len(records)),
		zap.Duration("duration", duration))

	return records, nil
}

// uniqueCurrencies returns the distinct currency codes in first-appearance order
func uniqueCurrencies(wallets []WalletRequest) []string {
	seen := make(map[string]struct{}, len(wallets))
	currencies := make([]string, 0, len(wallets))
	for _, w := range wallets {
		if _, ok := seen[w.Currency]; ok {
			continue
		}
		seen[w.Currency] = struct{}{}
		currencies = append(currencies, w.Currency)
	}
	return currencies
}

// planTasks creates one price task per currency followed by one balance task per wallet
func planTasks(wallets []WalletRequest, currencies []string) []task {
	tasks := make([]task, 0, len(wallets)+len(currencies))
	for _, currency := range currencies {
		tasks = append(tasks, task{kind: KindPrice, currency: currency})
	}
	for i, w := range wallets {
		tasks = append(tasks, task{
			kind:     KindBalance,
			currency: w.Currency,
			address:  w.Address,
			wallet:   i,
		})
	}
	return tasks
}

// join routes every outcome by its task kind and builds the records in wallet order
func join(wallets []WalletRequest, tasks []task, outcomes []outcome) ([]WalletRecord, error) {
	prices := make(map[string]interfaces.PriceResult)
	balances := make([]float64, len(wallets))
	hasBalance := make([]bool, len(wallets))

	for i, t := range tasks {
		if i >= len(outcomes) || !outcomes[i].done {
			continue
		}
		switch t.kind {
		case KindPrice:
			prices[t.currency] = outcomes[i].price
		case KindBalance:
			balances[t.wallet] = outcomes[i].balance
			hasBalance[t.wallet] = true
		}
	}

	records := make([]WalletRecord, 0, len(wallets))
	for i, w := range wallets {
		if !hasBalance[i] {
			return nil, &InternalConsistencyError{Kind: KindBalance, Currency: w.Currency, Address: w.Address, Reason: "missing"}
		}
		price, ok := prices[w.Currency]
		if !ok {
			return nil, &InternalConsistencyError{Kind: KindPrice, Currency: w.Currency, Address: w.Address, Reason: "missing"}
		}
		if len(price.Sources) == 0 {
			return nil, &InternalConsistencyError{Kind: KindPrice, Currency: w.Currency, Address: w.Address, Reason: "no sources reported"}
		}

		cryptoValue := balances[i]
		records = append(records, WalletRecord{
			Currency:        w.Currency,
			Address:         w.Address,
			CryptoValue:     cryptoValue,
			FiatValue:       cryptoValue * price.Price,
			ConversionPrice: price.Price,
			PriceSource:     price.Sources[0].Name,
		})
	}

	return records, nil
}
