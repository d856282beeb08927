/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes engine notifications to every connected client.

    The engine calls its hooks synchronously while the server holds its lock,
    so publishing never blocks: a message that cannot be queued is dropped
    and logged.

    Architecture:
    - Hub: registry of clients plus the broadcast loop.
    - Client: one browser connection.
    - ServeWs: upgrades a GET request and greets the client with the current state.
*/

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/mediterranean-merchant/internal/ids"
)

// Message types pushed over the socket.
const (
	MsgDayRollover   = "day_rollover"
	MsgSmoothSailing = "smooth_sailing"
	MsgEventResolved = "event_resolved"
	MsgState         = "state"
)

// Message is the JSON envelope for all real-time communication.
type Message struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered outbound messages

	// Taken by the hub loop on registration, so nothing published after
	// the snapshot can slip past the client.
	greeting func() Message
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	log *slog.Logger
}

// NewHub creates a Hub. Run must be started before clients connect.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.greet(client)
			h.log.Debug("ws client registered", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow or gone
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

func (h *Hub) greet(c *Client) {
	if c.greeting == nil {
		return
	}
	msg := c.greeting()
	msg.ID = ids.New()
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("ws greeting marshal failed", "err", err)
		return
	}
	c.send <- data
}

// Publish wraps payload in a Message and queues it for every client.
func (h *Hub) Publish(msgType string, payload any) {
	data, err := json.Marshal(Message{ID: ids.New(), Type: msgType, Payload: payload})
	if err != nil {
		h.log.Error("ws marshal failed", "type", msgType, "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("ws broadcast queue full, message dropped", "type", msgType)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the connection, registers the client and sends it a
// greeting message so it never starts from a blank screen.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, greeting func() Message) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("ws upgrade failed", "err", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), greeting: greeting}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection until it closes. Clients are read-only;
// anything they send is ignored.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("ws read failed", "err", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
}
