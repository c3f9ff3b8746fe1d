package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// EditorClient is one connected editor tab. PageID filters page events; an
// empty PageID receives everything.
type EditorClient struct {
	Conn   *websocket.Conn
	PageID string
	Send   chan []byte
}

// EditorBroadcaster manages connected editor clients and pushes document
// change events to them.
type EditorBroadcaster struct {
	clients    map[*EditorClient]bool
	register   chan *EditorClient
	unregister chan *EditorClient
	broadcast  chan EditorEvent
	done       chan struct{}
	logger     *logging.ChanneledLogger
	metrics    *metrics.Registry
	mu         sync.RWMutex
}

// NewEditorBroadcaster creates a new broadcaster instance.
func NewEditorBroadcaster(logger *logging.ChanneledLogger) *EditorBroadcaster {
	return &EditorBroadcaster{
		clients:    make(map[*EditorClient]bool),
		register:   make(chan *EditorClient),
		unregister: make(chan *EditorClient),
		broadcast:  make(chan EditorEvent, 64),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    metrics.Get(),
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *EditorBroadcaster) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for client := range b.clients {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.metrics.EditorClients.Set(0)
			b.logger.Editor().Info("Editor broadcaster stopped")
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			count := len(b.clients)
			b.mu.Unlock()
			b.metrics.EditorClients.Set(float64(count))
			b.logger.Editor().Debug("Editor client registered", "pageId", client.PageID, "clients", count)

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			count := len(b.clients)
			b.mu.Unlock()
			b.metrics.EditorClients.Set(float64(count))
			b.logger.Editor().Debug("Editor client unregistered", "pageId", client.PageID, "clients", count)

		case event := <-b.broadcast:
			b.deliver(event)
		}
	}
}

// Register queues a client for registration. It reports false once the
// broadcaster has stopped.
func (b *EditorBroadcaster) Register(client *EditorClient) bool {
	select {
	case b.register <- client:
		return true
	case <-b.done:
		return false
	}
}

// Unregister queues a client for unregistration.
func (b *EditorBroadcaster) Unregister(client *EditorClient) {
	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

// Publish queues an event. It never blocks; events are dropped when the
// queue is full.
func (b *EditorBroadcaster) Publish(event EditorEvent) {
	select {
	case b.broadcast <- event:
	default:
		b.logger.Editor().Warn("Editor event dropped, queue full", "type", event.Type)
	}
}

// ClientCount is the number of registered clients.
func (b *EditorBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *EditorBroadcaster) deliver(event EditorEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		b.logger.Editor().Error("Failed to marshal editor event", "error", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		if event.PageID != "" && client.PageID != "" && client.PageID != event.PageID {
			continue
		}
		select {
		case client.Send <- message:
		default:
		}
	}
}

// Serve registers conn and pumps messages until the peer goes away.
func (b *EditorBroadcaster) Serve(conn *websocket.Conn, pageID string) {
	client := &EditorClient{Conn: conn, PageID: pageID, Send: make(chan []byte, sendBufferSize)}
	if !b.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
	b.Unregister(client)
}

// readPump discards incoming messages and keeps the read deadline fresh.
func (c *EditorClient) readPump() {
	defer c.Conn.Close()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *EditorClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ Publisher = (*EditorBroadcaster)(nil)
