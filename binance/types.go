package binance

import (
	"encoding/json"
	"time"
)

// Quote represents price data for a symbol
type Quote struct {
	Price            float64   `json:"price"`
	PercentChange24h float64   `json:"percent_change_24h"`
	Volume24h        float64   `json:"volume_24h"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Ticker represents a Binance WebSocket 24hr ticker message
type Ticker struct {
	EventType          string      `json:"e"` // Event type
	EventTime          int64       `json:"E"` // Event time
	Symbol             string      `json:"s"` // Symbol
	PriceChangePercent json.Number `json:"P"` // Price change percent
	LastPrice          json.Number `json:"c"` // Last price
	Volume24h          json.Number `json:"v"` // Total traded base asset volume
}
