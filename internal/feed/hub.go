// internal/feed/hub.go
//
// Websocket fan-out for live leaderboard updates.
// Responsibilities:
//   - Upgrade HTTP requests and track connected clients.
//   - Broadcast JSON messages to every client, one writer per connection.
//   - Drop clients whose writes fail or time out.
//   - Keep connections alive with pings until the context is cancelled.

package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait    = 5 * time.Second
	pingInterval = 30 * time.Second
)

// Message is the envelope sent to clients.
type Message struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	Time time.Time `json:"time"`
}

// SnapshotFunc produces the message sent to a client right after it connects.
type SnapshotFunc func(r *http.Request) (Message, error)

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(kind int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, data)
}

// Hub tracks websocket clients.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	snapshot SnapshotFunc
}

// NewHub creates a hub. allowOrigin is compared against the Origin header;
// an empty value accepts any origin.
func NewHub(allowOrigin string, snapshot SnapshotFunc) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowOrigin == "" || origin == "" || origin == allowOrigin
			},
		},
		snapshot: snapshot,
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Debug().Int("clients", n).Msg("feed client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
		log.Debug().Msg("feed client disconnected")
	}
}

func (h *Hub) snapshotClients() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// Broadcast sends msg to every connected client. Clients that fail to
// receive it are disconnected.
func (h *Hub) Broadcast(msg Message) {
	if msg.Time.IsZero() {
		msg.Time = time.Now().UTC()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("encode feed message")
		return
	}

	var wg sync.WaitGroup
	for _, c := range h.snapshotClients() {
		wg.Add(1)
		go func(c *client) {
			defer wg.Done()
			if err := c.write(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Msg("feed write failed")
				h.unregister(c)
			}
		}(c)
	}
	wg.Wait()
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	c := &client{conn: conn}

	if h.snapshot != nil {
		msg, err := h.snapshot(r)
		if err != nil {
			log.Error().Err(err).Msg("feed snapshot")
		} else {
			if msg.Time.IsZero() {
				msg.Time = time.Now().UTC()
			}
			if data, err := json.Marshal(msg); err == nil {
				if err := c.write(websocket.TextMessage, data); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}
	h.register(c)
	defer h.unregister(c)

	// Clients never send anything meaningful; reading drives pong and close handling.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("feed read")
			}
			return
		}
	}
}

// Run pings clients periodically and disconnects all of them once ctx is done.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			for _, c := range h.snapshotClients() {
				_ = c.write(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				h.unregister(c)
			}
			return
		case <-t.C:
			for _, c := range h.snapshotClients() {
				if err := c.write(websocket.PingMessage, nil); err != nil {
					h.unregister(c)
				}
			}
		}
	}
}
