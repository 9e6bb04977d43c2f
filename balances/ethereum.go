package balances

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/metrics"
)

var weiPerEther = new(big.Float).SetInt(big.NewInt(1e18))

type balanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Ethereum reads ETH balances over JSON-RPC
type Ethereum struct {
	client        balanceReader
	metricsWriter *metrics.MetricsWriter
}

// DialEthereum connects to the RPC endpoint at rpcURL
func DialEthereum(ctx context.Context, rpcURL string) (*Ethereum, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum rpc: %w", err)
	}
	return newEthereum(client), nil
}

func newEthereum(client balanceReader) *Ethereum {
	return &Ethereum{
		client:        client,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceEthereum),
	}
}

func (e *Ethereum) Name() string {
	return metrics.ServiceEthereum
}

// Balance returns the latest balance in ETH
func (e *Ethereum) Balance(ctx context.Context, _ string, address string) (float64, error) {
	if !common.IsHexAddress(address) {
		return 0, fmt.Errorf("%w: %q is not a hex address", interfaces.ErrInvalidAddress, address)
	}

	wei, err := e.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		e.metricsWriter.RecordUpstreamRequest("error")
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: balance at: %v", interfaces.ErrUnavailable, err)
	}
	e.metricsWriter.RecordUpstreamRequest("success")

	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEther).Float64()
	return eth, nil
}
