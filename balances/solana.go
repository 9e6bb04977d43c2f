package balances

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/metrics"
)

type solanaRPC interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
}

// Solana reads SOL balances over JSON-RPC
type Solana struct {
	client        solanaRPC
	metricsWriter *metrics.MetricsWriter
}

// NewSolana creates a backend for the RPC endpoint at rpcURL
func NewSolana(rpcURL string) *Solana {
	return &Solana{
		client:        rpc.New(rpcURL),
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceSolana),
	}
}

func (s *Solana) Name() string {
	return metrics.ServiceSolana
}

// Balance returns the finalized balance in SOL
func (s *Solana) Balance(ctx context.Context, _ string, address string) (float64, error) {
	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", interfaces.ErrInvalidAddress, err)
	}

	out, err := s.client.GetBalance(ctx, pubKey, rpc.CommitmentFinalized)
	if err != nil {
		s.metricsWriter.RecordUpstreamRequest("error")
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: get balance: %v", interfaces.ErrUnavailable, err)
	}
	s.metricsWriter.RecordUpstreamRequest("success")

	lamports := new(big.Float).SetUint64(out.Value)
	sol, _ := new(big.Float).Quo(lamports, new(big.Float).SetUint64(solana.LAMPORTS_PER_SOL)).Float64()
	return sol, nil
}
