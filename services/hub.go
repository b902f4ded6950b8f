package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Clients only send pings, so reads stay small
	maxMessageSize = 4096

	// Pending events per client before it is considered gone
	sendBuffer = 256
)

// Event types published after successful writes.
const (
	EventTodoCreated = "todo.created"
	EventTodoUpdated = "todo.updated"
	EventTodoDeleted = "todo.deleted"
)

// Event is the message format of the change feed.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Publisher receives change events. The hub is the production implementation.
type Publisher interface {
	Publish(event Event)
}

// Client is one websocket subscriber of the change feed.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// control carries replies written by WritePump. Unlike send it is
	// never closed, so ReadPump can always offer to it.
	control chan []byte
}

// NewClient wraps conn for registration with hub.
func NewClient(hub *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		ID:      id,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		control: make(chan []byte, 1),
	}
}

// ReadPump reads from the connection until it closes. Pings get a pong back;
// anything else is dropped since the feed is read-only.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket error", "client", c.ID, "err", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			c.hub.logger.Debug("Ignoring malformed message", "client", c.ID, "err", err)
			continue
		}
		if event.Type != "ping" {
			continue
		}

		pong, err := json.Marshal(Event{
			Type: "pong",
			Data: map[string]string{"timestamp": time.Now().Format(time.RFC3339)},
		})
		if err != nil {
			continue
		}
		select {
		case c.control <- pong:
		default:
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case message := <-c.control:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// Hub maintains the set of subscribers and fans change events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *log.Logger
}

// NewHub creates a new hub instance
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues event for every subscriber. It never blocks: when the
// queue is full the event is dropped.
func (h *Hub) Publish(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Error marshalling event", "type", event.Type, "err", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("Event queue full, dropping event", "type", event.Type)
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("Client connected", "client", client.ID)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("Client disconnected", "client", client.ID)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, assume disconnected
					h.logger.Warn("Client send buffer full, removing client", "client", client.ID)
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
