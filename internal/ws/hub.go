package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// outbound is a message with its audience. A nil audience reaches everyone.
type outbound struct {
	payload  []byte
	audience []uuid.UUID
}

// Hub fans messages out to connected clients. Slow clients whose send
// buffer is full are dropped.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *zap.Logger
	stopped    bool
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

// Run processes hub events until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			h.stopped = true
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
		drain:
			for {
				select {
				case c := <-h.register:
					if c != nil {
						close(c.send)
					}
				default:
					break drain
				}
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("ws client connected", zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if c.wants(message.audience) {
					snapshot = append(snapshot, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message.payload:
				default:
					h.remove(client)
				}
			}
			h.logger.Debug("ws broadcast", zap.Int("clients", len(snapshot)))
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Debug("ws client disconnected", zap.Int("total_clients", total))
}

// Register hands client to the hub. After Run has stopped the client is
// closed immediately. Register never blocks.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.stopped {
		close(client.send)
		return
	}
	select {
	case h.register <- client:
	default:
		h.clients[client] = true
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	default:
		h.remove(client)
	}
}

// Broadcast sends message to every client.
func (h *Hub) Broadcast(message []byte) {
	h.Publish(message, nil)
}

// Publish sends message to unfiltered clients and to clients subscribed to
// one of the profiles in audience. A nil audience reaches every client.
func (h *Hub) Publish(message []byte, audience []uuid.UUID) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- outbound{payload: message, audience: audience}:
	default:
		h.logger.Warn("ws broadcast dropped", zap.String("reason", "buffer_full"))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
