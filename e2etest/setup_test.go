package e2etest

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/status-im/wallet-aggregator/api"
	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/core"
	"github.com/status-im/wallet-aggregator/logging"
)

// TestEnv represents a test environment
type TestEnv struct {
	App           *core.App
	Config        *config.Config
	MockServer    *MockServer
	Context       context.Context
	CancelFunc    context.CancelFunc
	ConfigPath    string
	ServerBaseURL string
}

// SetupTest wires the whole service against the mock upstreams and serves
// the API on a free port
func SetupTest(t *testing.T) *TestEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	mockServer := NewMockServer()

	env := &TestEnv{MockServer: mockServer, Context: ctx, CancelFunc: cancel}
	t.Cleanup(env.TearDown)

	cfg, configPath, err := loadTestConfig(mockServer.GetURL(), mockServer.GetWSURL())
	require.NoError(t, err, "Failed to load test config")
	env.Config = cfg
	env.ConfigPath = configPath

	logger, err := logging.New(cfg.Log.Level, false)
	require.NoError(t, err)

	app, err := core.Setup(ctx, cfg, logger)
	require.NoError(t, err, "Failed to setup services")
	env.App = app

	server := api.New(cfg.Server, cfg.Aggregator, app.Aggregator, app.Registry, logger, api.WithCacheStats(app.Cache))
	app.Registry.Register(server)
	require.NoError(t, app.Registry.StartAll(ctx), "Failed to start services")
	require.NoError(t, app.WaitForPriceFeeds(ctx, 5*time.Second), "Ticker stream did not deliver")

	_, port, err := net.SplitHostPort(server.Addr())
	require.NoError(t, err)
	env.ServerBaseURL = "http://127.0.0.1:" + port

	resp, err := http.Get(env.ServerBaseURL + "/health")
	require.NoError(t, err, "Server not responding")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return env
}

// TearDown releases test environment resources
func (env *TestEnv) TearDown() {
	if env.App != nil {
		env.App.Registry.StopAll()
		env.App = nil
	}
	if env.MockServer != nil {
		env.MockServer.Close()
		env.MockServer = nil
	}
	if env.CancelFunc != nil {
		env.CancelFunc()
	}
	if env.ConfigPath != "" {
		cleanupTestConfig(env.ConfigPath)
		env.ConfigPath = ""
	}
}
