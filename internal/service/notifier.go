package service

import (
	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNotification(n *domain.Notification)
	NotifyMatchRequest(req *domain.MatchRequest)
	NotifyMatchResponse(req *domain.MatchRequest)
	NotifyChatCreated(chat *domain.Chat)
	NotifyNewMessage(msg *domain.Message)
	NotifyMessagesRead(userID uuid.UUID, chatID *uuid.UUID, count int)
}

// nopNotifier is used until SetNotifier is called.
type nopNotifier struct{}

func (nopNotifier) NotifyNotification(*domain.Notification) {}
func (nopNotifier) NotifyMatchRequest(*domain.MatchRequest) {}
func (nopNotifier) NotifyMatchResponse(*domain.MatchRequest) {}
func (nopNotifier) NotifyChatCreated(*domain.Chat) {}
func (nopNotifier) NotifyNewMessage(*domain.Message) {}
func (nopNotifier) NotifyMessagesRead(uuid.UUID, *uuid.UUID, int) {}
