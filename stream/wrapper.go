package stream

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// WebsocketWrapper serializes writes to a connection shared by the stream
// and its handler.
type WebsocketWrapper struct {
	Conn *websocket.Conn
	mu   *sync.Mutex
}

func NewWrapper(c *websocket.Conn) *WebsocketWrapper {
	return &WebsocketWrapper{
		Conn: c,
		mu:   &sync.Mutex{},
	}
}

func (w *WebsocketWrapper) WriteSafe(mt int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Conn.WriteMessage(mt, data)
}

// Serve subscribes the connection and blocks until the client goes away.
func (s *Stream) Serve(c *websocket.Conn) {
	w := NewWrapper(c)
	s.SubscribeWebsocket(w)
	defer s.UnsubscribeWebsocket(w)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
