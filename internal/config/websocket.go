package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket builds the spectator upgrader. Allowed origins are full
// origins such as "http://example.com", matching the CORS allow-list. With
// no allowed origins every origin is accepted.
func NewWebSocket(allowedOrigins []string) *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
		},
	}

	return &WebSocket{
		Upgrader: upgrader,
	}
}
