package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/landseek/backend/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one logged-in websocket connection. Each client carries a uuid
// so log lines distinguish a stale connection from its replacement for the
// same user.
type Client struct {
	id       string
	userID   uint64
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte
	messages service.MessageService
	log      *slog.Logger
}

type inboundEnvelope struct {
	Type       string `json:"type"`
	ReceiverID uint64 `json:"receiverId"`
	ListingID  uint64 `json:"listingId"`
	Body       string `json:"body"`
	TempID     string `json:"tempId"`
}

type ackEvent struct {
	Type   string `json:"type"`
	TempID string `json:"tempId,omitempty"`
	ID     uint64 `json:"id"`
	TS     int64  `json:"ts"`
}

type errorEvent struct {
	Type   string `json:"type"`
	Error  string `json:"error"`
	TempID string `json:"tempId,omitempty"`
}

// TrySend implements Conn.
func (c *Client) TrySend(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.registry.Unregister(c)
		_ = c.conn.Close()
		c.log.Info("ws client disconnected", "user", c.userID, "conn", c.id)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read error", "user", c.userID, "err", err)
			}
			return
		}
		var env inboundEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendEvent(errorEvent{Type: "error", Error: "invalid_json"})
			continue
		}
		switch env.Type {
		case "send":
			c.handleSend(env)
		default:
			c.sendEvent(errorEvent{Type: "error", Error: "unsupported_type", TempID: env.TempID})
		}
	}
}

// handleSend persists through the message store, which relays to the
// receiver on success. The sender only gets an ack.
func (c *Client) handleSend(env inboundEnvelope) {
	msg, err := c.messages.Send(context.Background(), c.userID, env.ReceiverID, env.ListingID, env.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.sendEvent(errorEvent{Type: "error", Error: "invalid_input", TempID: env.TempID})
			return
		}
		c.sendEvent(errorEvent{Type: "error", Error: "send_failed", TempID: env.TempID})
		return
	}
	c.sendEvent(ackEvent{Type: "ack", TempID: env.TempID, ID: msg.ID, TS: msg.CreatedAt.Unix()})
}

func (c *Client) sendEvent(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.TrySend(payload)
}

func (c *Client) writePump() {
	ticker := time.NewTicker((pongWait * 9) / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
