package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

type NotificationRepo struct {
	s *Store
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	keepItem(r.s, ctx, &r.s.data.notifications, n.ID, notificationID)
	r.s.data.notifications = append(r.s.data.notifications, *n)
	return nil
}

func (r *NotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []domain.Notification
	for _, n := range r.s.data.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		list = append(list, n)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := 0
	for _, n := range r.s.data.notifications {
		if n.UserID == userID && !n.Read {
			c++
		}
	}
	return c, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.notifications {
		n := &r.s.data.notifications[i]
		if n.ID == id && n.UserID == userID {
			keepItem(r.s, ctx, &r.s.data.notifications, n.ID, notificationID)
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepo) MarkReadBySender(ctx context.Context, userID, senderID uuid.UUID, notifType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.notifications {
		n := &r.s.data.notifications[i]
		if n.UserID == userID && n.SenderID == senderID && n.Type == notifType && !n.Read {
			keepItem(r.s, ctx, &r.s.data.notifications, n.ID, notificationID)
			n.Read = true
		}
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := 0
	for i := range r.s.data.notifications {
		n := &r.s.data.notifications[i]
		if n.UserID == userID && !n.Read {
			keepItem(r.s, ctx, &r.s.data.notifications, n.ID, notificationID)
			n.Read = true
			c++
		}
	}
	return c, nil
}
