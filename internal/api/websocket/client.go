package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/recruitflow/recruitflow-backend/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024
)

// Client represents a WebSocket client
type Client struct {
	// The websocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	// Hub reference
	hub *Hub

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc

	// Client ID for tracking
	id string
}

// NewClient creates a new WebSocket client
func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, id string) *Client {
	clientCtx, cancel := context.WithCancel(ctx)
	return &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		hub:    hub,
		ctx:    clientCtx,
		cancel: cancel,
		id:     id,
	}
}

// ReadPump pumps control messages from the websocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		// After the hub stops its run loop no longer drains unregister.
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				return
			}
			c.handleMessage(message)
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
		case <-c.ctx.Done():
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// Close closes the client connection
func (c *Client) Close() {
	c.cancel()
}

// handleMessage handles subscribe/unsubscribe control frames from the client
func (c *Client) handleMessage(message []byte) {
	var ctrl models.ControlMessage
	if err := json.Unmarshal(message, &ctrl); err != nil {
		c.reply("error", "", "malformed control message")
		return
	}

	switch ctrl.Type {
	case "subscribe":
		if !ValidChannel(ctrl.Channel) {
			c.reply("error", ctrl.Channel, fmt.Sprintf("unknown channel %q", ctrl.Channel))
			return
		}
		c.hub.Subscribe(c, ctrl.Channel)
		c.reply("subscribed", ctrl.Channel, "")

	case "unsubscribe":
		if !ValidChannel(ctrl.Channel) {
			c.reply("error", ctrl.Channel, fmt.Sprintf("unknown channel %q", ctrl.Channel))
			return
		}
		c.hub.Unsubscribe(c, ctrl.Channel)
		c.reply("unsubscribed", ctrl.Channel, "")

	default:
		c.reply("error", ctrl.Channel, fmt.Sprintf("unknown message type %q", ctrl.Type))
	}
}

// reply sends an acknowledgement or error frame directly to this client.
func (c *Client) reply(msgType, channel, errMsg string) {
	data := map[string]interface{}{"type": msgType}
	if channel != "" {
		data["channel"] = channel
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	frame, err := json.Marshal(models.Envelope{Channel: "system", Data: data})
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}
