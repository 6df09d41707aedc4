package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/metrics"
)

var validChannels = map[string]bool{
	models.ChannelClientUpdates:      true,
	models.ChannelJobUpdates:         true,
	models.ChannelCandidateUpdates:   true,
	models.ChannelApplicationUpdates: true,
}

// ValidChannel reports whether name is a subscribable channel.
func ValidChannel(name string) bool {
	return validChannels[name]
}

type outbound struct {
	channel string
	data    []byte
}

// Hub maintains active WebSocket connections and routes published events to
// the subscribers of each channel.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Channel name -> subscribed clients
	subscriptions map[string]map[*Client]bool

	// Outbound messages awaiting fan-out
	broadcast chan outbound

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new WebSocket hub
func NewHub(ctx context.Context) *Hub {
	hubCtx, cancel := context.WithCancel(ctx)
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		broadcast:     make(chan outbound, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		ctx:           hubCtx,
		cancel:        cancel,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WebSocketConnectionsActive.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.dropClientLocked(client)
				close(client.send)
				metrics.WebSocketConnectionsActive.Dec()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.subscriptions[msg.channel] {
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full, close connection
					h.dropClientLocked(client)
					close(client.send)
					metrics.WebSocketConnectionsActive.Dec()
				}
			}
			h.mu.Unlock()
		}
	}
}

// dropClientLocked removes a client from the registry and from every
// channel it subscribed to. Callers hold h.mu.
func (h *Hub) dropClientLocked(client *Client) {
	delete(h.clients, client)
	for channel, subscribers := range h.subscriptions {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.subscriptions, channel)
		}
	}
}

// Stop stops the hub
func (h *Hub) Stop() {
	h.cancel()
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.dropClientLocked(client)
		close(client.send)
		metrics.WebSocketConnectionsActive.Dec()
	}
}

// Subscribe adds a client to a channel. Subscribing twice is a no-op.
func (h *Hub) Subscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscriptions[channel] == nil {
		h.subscriptions[channel] = make(map[*Client]bool)
	}
	h.subscriptions[channel][client] = true
}

// Unsubscribe removes a client from a channel. Unsubscribing a channel the
// client never joined is a no-op.
func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subscribers, ok := h.subscriptions[channel]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.subscriptions, channel)
		}
	}
}

// Broadcast publishes a payload to every subscriber of a channel. A
// timestamp is stamped into the payload at publish time. Connections too
// slow to drain their buffer are dropped rather than blocking the hub.
func (h *Hub) Broadcast(channel string, payload map[string]interface{}) {
	merged := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(models.Envelope{Channel: channel, Data: merged})
	if err != nil {
		log.Printf("WebSocket broadcast marshal error on %s: %v", channel, err)
		return
	}

	metrics.BroadcastsTotal.WithLabelValues(channel).Inc()

	select {
	case h.broadcast <- outbound{channel: channel, data: data}:
	case <-h.ctx.Done():
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns the number of clients subscribed to a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[channel])
}
