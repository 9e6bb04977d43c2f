package e2etest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/status-im/wallet-aggregator/aggregator"
)

const (
	btcAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	ltcAddress = "LdP8Qox1VAhCzLJNqrr74YovaWYyNBUWvL"
	solAddress = "11111111111111111111111111111111"
	ethAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

// postBalances posts an aggregation request and returns status and body
func postBalances(t *testing.T, env *TestEnv, body any) (int, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(env.ServerBaseURL+"/api/v1/wallets/balances", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeRecords(t *testing.T, data []byte) []aggregator.WalletRecord {
	t.Helper()
	var records []aggregator.WalletRecord
	require.NoError(t, json.Unmarshal(data, &records), string(data))
	return records
}
