package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/live"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	log    *zap.Logger

	send chan []byte

	// ctx ends when the connection is unregistered.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, logger *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		log:    logger.With(zap.String("user_id", userID.String())),
		send:   make(chan []byte, sendBufSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Enqueue queues data for the write pump. A client whose buffer is full is dropped.
func (c *Client) Enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	case <-c.ctx.Done():
		return false
	default:
		c.log.Warn("ws: send buffer full, closing connection")
		c.cancel()
		return false
	}
}

// EnqueueEvent marshals evt and queues it.
func (c *Client) EnqueueEvent(evt live.Event) bool {
	data, err := json.Marshal(evt)
	if err != nil {
		c.log.Error("ws: marshal error", zap.String("type", evt.Type), zap.Error(err))
		return false
	}
	return c.Enqueue(data)
}

// ReadPump reads messages from the WebSocket and routes them to the Hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event live.Event
		err := wsjson.Read(c.ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || c.ctx.Err() != nil {
				c.log.Debug("ws: client disconnected")
			} else {
				c.log.Info("ws: read error", zap.Error(err))
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Info("ws: write error", zap.Error(err))
				c.cancel()
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				c.log.Info("ws: ping error", zap.Error(err))
				c.cancel()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *live.Event) {
	switch event.Type {
	case EventTypeTypingStart, EventTypeTypingStop:
		if event.ChatID == nil {
			c.sendError("INVALID_PAYLOAD", "chat_id required for typing events")
			return
		}
		if err := c.hub.HandleTyping(c.ctx, c, *event.ChatID, event.Type == EventTypeTypingStart); err != nil {
			c.sendError("FORBIDDEN", err.Error())
		}

	case EventTypePing:
		c.EnqueueEvent(live.Event{Type: EventTypePong, Timestamp: time.Now().Unix()})

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := live.NewEvent(EventTypeError, nil, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.EnqueueEvent(evt)
}
