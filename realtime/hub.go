// Package realtime pushes change notifications to connected browsers so
// admin tables and public galleries refresh without polling. Events are
// keyed by collection name; a client subscribes to the collections it cares
// about when it connects.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Event is one change notification: which collection changed, how, and the
// record after the change (or its id for deletes).
type Event struct {
	Collection string      `json:"collection"`
	Action     string      `json:"action"`
	Record     interface{} `json:"record"`
}

type client struct {
	conn *websocket.Conn
	// nil means all collections
	collections map[string]bool
	send        chan []byte
}

// Hub fans events out to every subscribed websocket client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Publish sends an event to every client subscribed to its collection.
// Best-effort: slow clients are dropped, never waited on.
func (h *Hub) Publish(collection, action string, record interface{}) {
	data, err := json.Marshal(Event{Collection: collection, Action: action, Record: record})
	if err != nil {
		log.Printf("realtime: failed to marshal %s event for %s: %v", action, collection, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.collections != nil && !c.collections[collection] {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client is not draining its buffer; closing the channel here
			// would race the writer, so just skip the event.
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler upgrades the request to a websocket and streams matching events.
// The `collections` query parameter limits the subscription; values may be
// comma-separated or repeated, e.g. /api/realtime?collections=orders,artwork
// or ?collections=orders&collections=artwork. Without it the client receives
// every collection.
func (h *Hub) Handler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	var collections map[string]bool
	if values := c.QueryArray("collections"); len(values) > 0 {
		collections = make(map[string]bool)
		for _, value := range values {
			for _, name := range strings.Split(value, ",") {
				if name = strings.TrimSpace(name); name != "" {
					collections[name] = true
				}
			}
		}
	}

	cl := &client{
		conn:        conn,
		collections: collections,
		send:        make(chan []byte, 16),
	}

	h.mu.Lock()
	h.clients[cl] = true
	h.mu.Unlock()

	go h.writeLoop(cl)
	h.readLoop(cl)
}

func (h *Hub) writeLoop(cl *client) {
	for data := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
}

// readLoop blocks until the client goes away, then tears it down. Incoming
// messages are ignored; the feed is one-way.
func (h *Hub) readLoop(cl *client) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		close(cl.send)
		cl.conn.Close()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
