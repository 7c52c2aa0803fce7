package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	// StreamInterval is the pause between two streamed path steps.
	StreamInterval time.Duration
}

func NewWebSocket() (*WebSocket, error) {
	interval, err := lookupDuration("STREAM_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("STREAM_INTERVAL must be positive, got %s", interval)
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	ws := &WebSocket{
		Upgrader:       upgrader,
		StreamInterval: interval,
	}

	return ws, nil
}
