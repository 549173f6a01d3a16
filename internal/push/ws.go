package push

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dev channel, same policy as the open CORS setup
	},
}

// wsSink sends each event as one JSON text message.
type wsSink struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (s *wsSink) Send(event any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return s.ws.WriteJSON(event)
}

type welcome struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	ClientID  string `json:"client_id"`
}
