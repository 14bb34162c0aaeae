package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/service"
	"github.com/vedran77/roomie/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notifService *service.NotificationService
	unread       *service.UnreadAggregator
	log          *zap.Logger
}

func NewNotificationHandler(notifService *service.NotificationService, unread *service.UnreadAggregator, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifService: notifService, unread: unread, log: logger}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	list, err := h.notifService.List(r.Context(), middleware.GetUserID(r.Context()), unreadOnly)
	if err != nil {
		internalError(w, h.log, "list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.notifService.MarkRead(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		} else {
			internalError(w, h.log, "mark notification read", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifService.MarkAllRead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "mark all notifications read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

func (h *NotificationHandler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.notifService.Feed(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "feed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	err := h.notifService.Dismiss(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrEmptyItemID) {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "Item ID is required")
		} else {
			internalError(w, h.log, "dismiss feed item", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	counts, err := h.unread.Snapshot(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "unread counts", err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
