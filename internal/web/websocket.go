package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Change events are tiny; anything bigger is a misbehaving client.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST layer already allows any origin; the feed is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed pushes change notifications to connected websocket clients. It is
// broadcast-only: clients send nothing but pings.
type Feed struct {
	logger     *slog.Logger
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	clients    map[*feedClient]bool
	// done is closed when Run exits, so late connects and disconnects
	// never block on the unbuffered channels above.
	done chan struct{}
}

type feedClient struct {
	feed *Feed
	conn *websocket.Conn
	send chan []byte
}

// NewFeed creates an idle feed; call Run to start delivering.
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Feed{
		logger:     logger,
		broadcast:  make(chan []byte, 16),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		clients:    make(map[*feedClient]bool),
		done:       make(chan struct{}),
	}
}

// Broadcast queues v, JSON-encoded, for delivery to every connected client.
func (f *Feed) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		f.logger.Error("failed to encode feed event", "error", err)
		return
	}
	select {
	case f.broadcast <- msg:
	default:
		f.logger.Warn("feed broadcast queue full, dropping event")
	}
}

// Run delivers events until ctx is canceled.
func (f *Feed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range f.clients {
				close(client.send)
				delete(f.clients, client)
			}
			close(f.done)
			return
		case client := <-f.register:
			f.clients[client] = true
		case client := <-f.unregister:
			if _, ok := f.clients[client]; ok {
				delete(f.clients, client)
				close(client.send)
			}
		case msg := <-f.broadcast:
			for client := range f.clients {
				select {
				case client.send <- msg:
				default:
					// Send buffer full; assume the client is gone.
					close(client.send)
					delete(f.clients, client)
				}
			}
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &feedClient{feed: s.feed, conn: conn, send: make(chan []byte, 16)}
	select {
	case s.feed.register <- client:
	case <-s.feed.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pongs and close frames are processed;
// client payloads are ignored.
func (c *feedClient) readPump() {
	defer func() {
		select {
		case c.feed.unregister <- c:
		case <-c.feed.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
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

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
