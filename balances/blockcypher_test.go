package balances

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
)

func newTestBlockCypher(serverURL, token string) *BlockCypher {
	return NewBlockCypher(config.BlockCypherConfig{BaseURL: serverURL, Token: token})
}

func TestBlockCypher_Balance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ltc/main/addrs/LdP8Qox1VAhCzLJNqrr74YovaWYyNBUWvL/balance", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"address":"LdP8Qox1VAhCzLJNqrr74YovaWYyNBUWvL","balance":250000000,"final_balance":260000000}`))
	}))
	defer server.Close()

	balance, err := newTestBlockCypher(server.URL+"/", "secret").Balance(context.Background(), "ltc", "LdP8Qox1VAhCzLJNqrr74YovaWYyNBUWvL")
	require.NoError(t, err)
	assert.Equal(t, 2.5, balance)
}

func TestBlockCypher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "bad address", status: http.StatusBadRequest, body: `{"error":"invalid"}`, wantErr: interfaces.ErrInvalidAddress},
		{name: "unknown address", status: http.StatusNotFound, body: `{}`, wantErr: interfaces.ErrInvalidAddress},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: interfaces.ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, body: ``, wantErr: interfaces.ErrUnavailable},
		{name: "garbage body", status: http.StatusOK, body: `<html>`, wantErr: interfaces.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestBlockCypher(server.URL, "").Balance(context.Background(), "btc", "1abc")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBlockCypher_EmptyAddress(t *testing.T) {
	_, err := newTestBlockCypher("http://127.0.0.1:1", "").Balance(context.Background(), "btc", "")
	assert.ErrorIs(t, err, interfaces.ErrInvalidAddress)
}

func TestBlockCypher_NoTokenParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"balance":1}`))
	}))
	defer server.Close()

	balance, err := newTestBlockCypher(server.URL, "").Balance(context.Background(), "doge", "D8abc")
	require.NoError(t, err)
	assert.Equal(t, 1e-8, balance)
}
