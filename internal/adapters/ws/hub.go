// Package ws broadcasts auction events to all connected WebSocket observers.
// Every observer receives every StateUpdate and Outbid event; filtering an
// Outbid notice down to the displaced bidder is done client-side.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/callmeprinceyadav/Levich/internal/auction"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	// Buffered so one slow client cannot stall the broadcast loop; clients
	// that fall this far behind are dropped.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is left to the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client represents a single WebSocket observer.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages all WebSocket connections and fans broadcast payloads out to
// each of them. It implements auction.EventSink.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{} // closed when Run exits; unblocks pending (un)registers
	logger     *slog.Logger
}

// NewHub creates a new hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run drives the hub's register/unregister/broadcast loop until the context
// is cancelled. It must run in its own goroutine before clients connect.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client is too slow to keep up; drop it.
					delete(h.clients, client)
					close(client.send)
				}
			}

		case <-ctx.Done():
			// Closing done releases any ServeWS or readPump goroutine still
			// waiting to (un)register; nothing drains those channels after
			// this point.
			close(h.done)
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return ctx.Err()
		}
	}
}

// Deliver implements auction.EventSink by JSON-encoding the event envelope
// and queueing it for broadcast to every connected client.
func (h *Hub) Deliver(ctx context.Context, event auction.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and registers
// the client with the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		// Hub already shut down; refuse the connection instead of blocking.
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h.unregister, h.done)
}

// writePump pumps queued payloads to the connection and keeps it alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; observers are read-only. Its real job is
// noticing disconnects and answering pings so the connection stays healthy.
func (c *Client) readPump(unregister chan<- *Client, done <-chan struct{}) {
	defer func() {
		select {
		case unregister <- c:
		case <-done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
