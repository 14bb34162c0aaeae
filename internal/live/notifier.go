package live

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

type MessagesReadPayload struct {
	UserID uuid.UUID  `json:"user_id"`
	ChatID *uuid.UUID `json:"chat_id,omitempty"`
	Count  int        `json:"count"`
}

// BrokerNotifier publishes domain changes to the topics their readers listen on.
type BrokerNotifier struct {
	broker Broker
	log    *zap.Logger
}

func NewBrokerNotifier(broker Broker, logger *zap.Logger) *BrokerNotifier {
	return &BrokerNotifier{broker: broker, log: logger}
}

func (n *BrokerNotifier) publish(topic, eventType string, chatID *uuid.UUID, payload any) {
	evt, err := NewEvent(eventType, chatID, payload)
	if err != nil {
		n.log.Error("live notifier: marshal error", zap.String("type", eventType), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := n.broker.Publish(ctx, topic, evt); err != nil {
		n.log.Error("live notifier: publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

func (n *BrokerNotifier) NotifyNotification(notif *domain.Notification) {
	n.publish(UserTopic(notif.UserID), EventNotification, nil, notif)
}

func (n *BrokerNotifier) NotifyMatchRequest(req *domain.MatchRequest) {
	n.publish(UserTopic(req.ReceiverID), EventMatchRequest, nil, req)
}

func (n *BrokerNotifier) NotifyMatchResponse(req *domain.MatchRequest) {
	n.publish(UserTopic(req.SenderID), EventMatchResponse, nil, req)
	n.publish(UserTopic(req.ReceiverID), EventMatchResponse, nil, req)
}

func (n *BrokerNotifier) NotifyChatCreated(chat *domain.Chat) {
	n.publish(UserTopic(chat.User1ID), EventChatCreated, &chat.ID, chat)
	n.publish(UserTopic(chat.User2ID), EventChatCreated, &chat.ID, chat)
}

func (n *BrokerNotifier) NotifyNewMessage(msg *domain.Message) {
	n.publish(ChatTopic(msg.ChatID), EventMessageNew, &msg.ChatID, msg)
	n.publish(UserTopic(msg.ReceiverID), EventMessageNew, &msg.ChatID, msg)
	n.publish(UserTopic(msg.SenderID), EventMessageNew, &msg.ChatID, msg)
}

func (n *BrokerNotifier) NotifyMessagesRead(userID uuid.UUID, chatID *uuid.UUID, count int) {
	payload := MessagesReadPayload{UserID: userID, ChatID: chatID, Count: count}
	if chatID != nil {
		n.publish(ChatTopic(*chatID), EventMessagesRead, chatID, payload)
	}
	n.publish(UserTopic(userID), EventMessagesRead, chatID, payload)
}
