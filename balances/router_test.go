package balances

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
)

type stubBackend struct {
	name    string
	balance float64
	err     error
	calls   []string
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Balance(_ context.Context, currency, address string) (float64, error) {
	s.calls = append(s.calls, currency+":"+address)
	return s.balance, s.err
}

func TestRouter_Dispatch(t *testing.T) {
	utxo := &stubBackend{name: "blockcypher", balance: 0.5}
	sol := &stubBackend{name: "solana", balance: 12}

	router := NewRouter(nil)
	router.Register(utxo, "btc", "LTC")
	router.Register(sol, "sol")

	tests := []struct {
		currency string
		want     float64
		backend  *stubBackend
	}{
		{currency: "btc", want: 0.5, backend: utxo},
		{currency: "ltc", want: 0.5, backend: utxo},
		{currency: "SOL", want: 12, backend: sol},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got, err := router.GetBalance(context.Background(), tt.currency, "addr", interfaces.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"btc:addr", "ltc:addr"}, utxo.calls)
	assert.Equal(t, []string{"sol:addr"}, sol.calls)
	assert.ElementsMatch(t, []string{"btc", "ltc", "sol"}, router.Currencies())
}

func TestRouter_UnsupportedCurrency(t *testing.T) {
	_, err := NewRouter(nil).GetBalance(context.Background(), "xmr", "addr", interfaces.Options{})

	var lookupErr *interfaces.BalanceLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "xmr", lookupErr.Currency)
	assert.ErrorIs(t, err, interfaces.ErrUnsupportedCurrency)
}

func TestRouter_BackendError(t *testing.T) {
	backendErr := errors.New("boom")
	router := NewRouter(nil)
	router.Register(&stubBackend{name: "blockcypher", err: backendErr}, "btc")

	_, err := router.GetBalance(context.Background(), "btc", "1abc", interfaces.Options{})

	var lookupErr *interfaces.BalanceLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "blockcypher", lookupErr.Source)
	assert.Equal(t, "1abc", lookupErr.Address)
	assert.ErrorIs(t, err, backendErr)
}

func TestNewRouterFromConfig(t *testing.T) {
	cfg := config.Default().Balances
	cfg.Solana.RPCURL = "http://127.0.0.1:8899"
	cfg.Ethereum.RPCURL = "http://127.0.0.1:8545"

	router, err := NewRouterFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"btc", "ltc", "doge", "dash", "sol", "eth"}, router.Currencies())

	router, err = NewRouterFromConfig(context.Background(), config.BalancesConfig{}, nil)
	require.NoError(t, err)
	assert.Empty(t, router.Currencies())
}
