package ws

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/live"
	"github.com/vedran77/roomie/internal/metrics"
	"go.uber.org/zap"
)

var errNotInChat = errors.New("not a participant of this chat")

// ChatLookup resolves the chat a typing event refers to.
type ChatLookup interface {
	GetChatByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
}

// Hub manages all active WebSocket clients of this instance.
type Hub struct {
	// clients maps userID → that user's open connections.
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	broker live.Broker
	chats  ChatLookup
	log    *zap.Logger
}

func NewHub(broker live.Broker, chats ChatLookup, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		broker:     broker,
		chats:      chats,
		log:        logger,
	}
}

// Run starts the Hub's main event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					c.cancel()
					metrics.WSConnections.Dec()
				}
			}
			return

		case client := <-h.register:
			conns := h.clients[client.userID]
			if conns == nil {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			metrics.WSConnections.Inc()
			h.log.Debug("ws hub: connected", zap.String("user_id", client.userID.String()), zap.Int("users", len(h.clients)))

			// Broadcast presence online
			if len(conns) == 1 {
				h.broadcastPresence(client.userID, "online")
			}

		case client := <-h.unregister:
			conns, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, ok := conns[client]; !ok {
				continue
			}
			delete(conns, client)
			client.cancel()
			metrics.WSConnections.Dec()
			h.log.Debug("ws hub: disconnected", zap.String("user_id", client.userID.String()))

			// Broadcast presence offline
			if len(conns) == 0 {
				delete(h.clients, client.userID)
				h.broadcastPresence(client.userID, "offline")
			}
		}
	}
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		c.cancel()
	}
}

// HandleTyping forwards a typing indicator to the other participant of the chat.
func (h *Hub) HandleTyping(ctx context.Context, sender *Client, chatID uuid.UUID, typing bool) error {
	chat, err := h.chats.GetChatByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat == nil || !chat.HasParticipant(sender.userID) {
		return errNotInChat
	}

	evt, err := live.NewEvent(live.EventTyping, &chatID, TypingPayload{
		UserID: sender.userID,
		Typing: typing,
	})
	if err != nil {
		return err
	}
	return h.broker.Publish(ctx, live.UserTopic(chat.Other(sender.userID)), evt)
}

// broadcastPresence sends online/offline to every other connected client.
func (h *Hub) broadcastPresence(userID uuid.UUID, status string) {
	evt, err := live.NewEvent(live.EventPresence, nil, PresencePayload{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return
	}
	for id, conns := range h.clients {
		if id == userID {
			continue
		}
		for c := range conns {
			c.EnqueueEvent(evt)
		}
	}
}
