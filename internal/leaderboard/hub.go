package leaderboard

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smidgyy/Cursorrrr/internal/score"
)

var upgrader = websocket.Upgrader{
	// The board is public and unauthenticated; any origin may watch it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes refreshed rankings to websocket watchers whenever a score
// lands. Slow watchers are dropped, never waited on.
type Hub struct {
	logger *log.Logger

	mu       sync.Mutex
	watchers map[*websocket.Conn]chan []score.Entry
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger:   logger,
		watchers: make(map[*websocket.Conn]chan []score.Entry),
	}
}

// Broadcast queues the latest rankings for every watcher.
func (h *Hub) Broadcast(entries []score.Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.watchers {
		select {
		case ch <- entries:
		default:
		}
	}
}

// Watchers reports the current connection count.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// ServeWS upgrades the request and streams ranking updates until the peer
// goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws upgrade: %v", err)
		return
	}

	updates := make(chan []score.Entry, 4)
	h.mu.Lock()
	h.watchers[conn] = updates
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.watchers, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Reader goroutine just detects disconnects; watchers never send.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(25 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case entries := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(entries); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
