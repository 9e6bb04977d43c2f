package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// createTestServer creates a test WebSocket server
func createTestServer(t *testing.T, handler func(*websocket.Conn)) (*httptest.Server, string) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		handler(conn)
	}))

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1)
	return server, wsURL
}

func TestWebSocketClient_MessageHandling(t *testing.T) {
	server, wsURL := createTestServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("test message"))
		// keep the connection open until the client goes away
		_, _, _ = conn.ReadMessage()
	})
	defer server.Close()

	received := make(chan string, 1)
	client := NewWebSocketClient(wsURL, time.Second,
		func(message []byte) { received <- string(message) },
		func(err error) { t.Logf("client error: %v", err) },
	)

	client.Start(context.Background())
	defer client.Stop()

	select {
	case msg := <-received:
		assert.Equal(t, "test message", msg)
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for message")
	}
}

func TestWebSocketClient_ReconnectsAfterClose(t *testing.T) {
	var connections atomic.Int32
	server, wsURL := createTestServer(t, func(conn *websocket.Conn) {
		n := connections.Add(1)
		if n == 1 {
			// drop the first connection right away
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte("after reconnect"))
		_, _, _ = conn.ReadMessage()
	})
	defer server.Close()

	errs := make(chan error, 10)
	received := make(chan string, 1)
	client := NewWebSocketClient(wsURL, 20*time.Millisecond,
		func(message []byte) { received <- string(message) },
		func(err error) { errs <- err },
	)

	client.Start(context.Background())
	defer client.Stop()

	select {
	case msg := <-received:
		assert.Equal(t, "after reconnect", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for reconnect")
	}
	assert.GreaterOrEqual(t, connections.Load(), int32(2))
	assert.NotEmpty(t, errs, "the dropped connection is reported")
}

func TestWebSocketClient_ConnectionError(t *testing.T) {
	errorReceived := make(chan error, 1)
	client := NewWebSocketClient("ws://127.0.0.1:1/ws", time.Hour,
		func(message []byte) { t.Errorf("Unexpected message: %s", message) },
		func(err error) {
			select {
			case errorReceived <- err:
			default:
			}
		},
	)

	client.Start(context.Background())
	defer client.Stop()

	select {
	case err := <-errorReceived:
		assert.ErrorContains(t, err, "failed to connect")
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for connection error")
	}
}

func TestWebSocketClient_StopWaitsForLoop(t *testing.T) {
	server, wsURL := createTestServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("slow"))
		_, _, _ = conn.ReadMessage()
	})
	defer server.Close()

	handlerStarted := make(chan struct{})
	var handlerDone atomic.Bool
	client := NewWebSocketClient(wsURL, time.Second,
		func(message []byte) {
			close(handlerStarted)
			time.Sleep(150 * time.Millisecond)
			handlerDone.Store(true)
		},
		func(err error) {},
	)

	client.Start(context.Background())

	select {
	case <-handlerStarted:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for message handler to start")
	}

	client.Stop()
	assert.True(t, handlerDone.Load(), "Stop returns only after the handler finished")
}
