package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The stream is same-origin in production; the UI shell proxies it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeTimeout = 5 * time.Second

// ServeWS upgrades a request and pumps hub broadcasts to the socket until
// the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream upgrade failed: %v", err)
		return
	}
	client := h.Register()

	go func() {
		defer func() {
			h.Unregister(client)
			_ = conn.Close()
		}()
		// Drain reads so close/ping frames are processed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer func() { _ = conn.Close() }()
		for payload := range client.Send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}()
}
