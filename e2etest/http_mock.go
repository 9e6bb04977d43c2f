package e2etest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	solanaRPCPath   = "/solana"
	ethereumRPCPath = "/ethereum"
	tickerPath      = "/ws/!ticker@arr"
)

type syncWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// MockServer fakes every upstream: CoinGecko, BlockCypher, the Solana and
// Ethereum JSON-RPC endpoints and the Binance ticker stream
type MockServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	// CoinGeckoPrices maps coin id to fiat to price
	CoinGeckoPrices map[string]map[string]float64
	// UTXOBalances maps address to base units for BlockCypher
	UTXOBalances map[string]int64
	// Lamports maps Solana addresses to their balance
	Lamports map[string]uint64
	// WeiHex maps lower case Ethereum addresses to a hex encoded balance
	WeiHex map[string]string
	// Tickers are broadcast to every websocket client
	Tickers string

	PriceRequests   atomic.Int32
	BalanceRequests atomic.Int32

	mu             sync.RWMutex
	websocketConns []*syncWSConn
	done           chan struct{}
	closeOnce      sync.Once
}

// NewMockServer creates and starts a mock server
func NewMockServer() *MockServer {
	ms := &MockServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		CoinGeckoPrices: map[string]map[string]float64{
			"bitcoin":  {"usd": 59000, "eur": 54000},
			"ethereum": {"usd": 2990, "eur": 2700},
			"solana":   {"usd": 149, "eur": 135},
			"litecoin": {"usd": 80, "eur": 72},
		},
		UTXOBalances: map[string]int64{
			"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa": 150000000,
			"LdP8Qox1VAhCzLJNqrr74YovaWYyNBUWvL": 1000000000,
			"1abc":                               200000000,
			"L1":                                 300000000,
		},
		Lamports: map[string]uint64{
			"11111111111111111111111111111111": 2500000000,
		},
		WeiHex: map[string]string{
			"0x742d35cc6634c0532925a3b844bc454e4438f44e": "0x1bc16d674ec80000",
		},
		Tickers: defaultTickers,
		done:    make(chan struct{}),
	}

	ms.server = httptest.NewServer(http.HandlerFunc(ms.handleRequest))
	go ms.broadcastTickers()

	return ms
}

const defaultTickers = `[
	{"e":"24hrTicker","E":1672515782136,"s":"BTCUSDT","c":"60000.00","P":"1.5","v":"100.00"},
	{"e":"24hrTicker","E":1672515782136,"s":"ETHUSDT","c":"3000.00","P":"-2.0","v":"500.00"},
	{"e":"24hrTicker","E":1672515782136,"s":"SOLUSDT","c":"150.00","P":"3.1","v":"9000.00"}
]`

// GetURL returns the base URL of the mock server
func (ms *MockServer) GetURL() string {
	return ms.server.URL
}

// GetWSURL returns the ticker stream URL
func (ms *MockServer) GetWSURL() string {
	return "ws" + strings.TrimPrefix(ms.server.URL, "http") + tickerPath
}

// Close closes the mock server and all WebSocket connections
func (ms *MockServer) Close() {
	ms.closeOnce.Do(func() { close(ms.done) })

	ms.mu.Lock()
	for _, syncConn := range ms.websocketConns {
		syncConn.mu.Lock()
		_ = syncConn.conn.Close()
		syncConn.mu.Unlock()
	}
	ms.websocketConns = nil
	ms.mu.Unlock()

	ms.server.Close()
}

func (ms *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == tickerPath:
		ms.handleWebSocket(w, r)
	case path == "/api/v3/simple/price":
		ms.handleSimplePrice(w, r)
	case strings.HasPrefix(path, "/v1/") && strings.HasSuffix(path, "/balance"):
		ms.handleUTXOBalance(w, r)
	case path == solanaRPCPath:
		ms.handleRPC(w, r, ms.solanaResult)
	case path == ethereumRPCPath:
		ms.handleRPC(w, r, ms.ethereumResult)
	default:
		http.NotFound(w, r)
	}
}

func (ms *MockServer) handleSimplePrice(w http.ResponseWriter, r *http.Request) {
	ms.PriceRequests.Add(1)
	query := r.URL.Query()
	fiats := strings.Split(query.Get("vs_currencies"), ",")

	response := map[string]map[string]float64{}
	for _, id := range strings.Split(query.Get("ids"), ",") {
		prices, ok := ms.CoinGeckoPrices[id]
		if !ok {
			continue
		}
		response[id] = map[string]float64{}
		for _, fiat := range fiats {
			if price, ok := prices[fiat]; ok {
				response[id][fiat] = price
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// handleUTXOBalance serves /v1/{coin}/main/addrs/{address}/balance
func (ms *MockServer) handleUTXOBalance(w http.ResponseWriter, r *http.Request) {
	ms.BalanceRequests.Add(1)
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 6 {
		http.NotFound(w, r)
		return
	}
	balance, ok := ms.UTXOBalances[parts[4]]
	if !ok {
		http.Error(w, `{"error":"address not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"address":%q,"balance":%d}`, parts[4], balance)
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcResolver func(req rpcRequest) (any, bool)

func (ms *MockServer) handleRPC(w http.ResponseWriter, r *http.Request, resolve rpcResolver) {
	ms.BalanceRequests.Add(1)
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if result, ok := resolve(req); ok {
		resp["result"] = result
	} else {
		resp["error"] = map[string]any{"code": -32602, "message": "unsupported call"}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func firstParam(req rpcRequest) string {
	if len(req.Params) == 0 {
		return ""
	}
	var s string
	_ = json.Unmarshal(req.Params[0], &s)
	return s
}

func (ms *MockServer) solanaResult(req rpcRequest) (any, bool) {
	if req.Method != "getBalance" {
		return nil, false
	}
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value":   ms.Lamports[firstParam(req)],
	}, true
}

func (ms *MockServer) ethereumResult(req rpcRequest) (any, bool) {
	if req.Method != "eth_getBalance" {
		return nil, false
	}
	wei, ok := ms.WeiHex[strings.ToLower(firstParam(req))]
	if !ok {
		wei = "0x0"
	}
	return wei, true
}

func (ms *MockServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ms.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	syncConn := &syncWSConn{conn: conn}
	ms.mu.Lock()
	ms.websocketConns = append(ms.websocketConns, syncConn)
	ms.mu.Unlock()

	ms.send(syncConn)
}

func (ms *MockServer) send(syncConn *syncWSConn) {
	syncConn.mu.Lock()
	defer syncConn.mu.Unlock()
	_ = syncConn.conn.WriteMessage(websocket.TextMessage, []byte(ms.Tickers))
}

// broadcastTickers pushes the tickers to every client until Close
func (ms *MockServer) broadcastTickers() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ms.done:
			return
		case <-ticker.C:
			ms.mu.RLock()
			conns := append([]*syncWSConn(nil), ms.websocketConns...)
			ms.mu.RUnlock()
			for _, c := range conns {
				ms.send(c)
			}
		}
	}
}
