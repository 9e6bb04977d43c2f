package binance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	BASE_WS_URL  = "wss://stream.binance.com:9443/ws/!ticker@arr"
	PONG_TIMEOUT = 60 * time.Second
)

// WebSocketCallback is a callback function for handling WebSocket messages
type WebSocketCallback func(message []byte)

// ErrorCallback is a callback function for handling WebSocket errors
type ErrorCallback func(err error)

// WebSocketClient reads a WebSocket stream and redials after errors until
// stopped
type WebSocketClient struct {
	wsURL          string
	reconnectDelay time.Duration
	onMessage      WebSocketCallback
	onError        ErrorCallback

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	loopWg sync.WaitGroup
}

// NewWebSocketClient creates a new WebSocket client
func NewWebSocketClient(wsURL string, reconnectDelay time.Duration, onMessage WebSocketCallback, onError ErrorCallback) *WebSocketClient {
	if wsURL == "" {
		wsURL = BASE_WS_URL
	}
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &WebSocketClient{
		wsURL:          wsURL,
		reconnectDelay: reconnectDelay,
		onMessage:      onMessage,
		onError:        onError,
	}
}

// Start runs the connection loop in the background
func (c *WebSocketClient) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.loopWg.Add(1)
	go func() {
		defer c.loopWg.Done()
		for {
			if err := c.runConnection(ctx); err != nil && ctx.Err() == nil {
				c.onError(err)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(c.reconnectDelay):
			}
		}
	}()
}

// Stop closes the connection and blocks until the loop has exited
func (c *WebSocketClient) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()

	c.loopWg.Wait()
}

func (c *WebSocketClient) runConnection(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to WebSocket: %w", err)
	}

	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		if err := conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			return err
		}
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	for {
		if err := conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("error reading WebSocket message: %w", err)
		}
		c.onMessage(message)
	}
}
