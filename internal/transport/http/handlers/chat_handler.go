package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/service"
	"github.com/vedran77/roomie/internal/transport/http/middleware"
	"github.com/vedran77/roomie/pkg/validator"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	log         *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: logger}
}

func (h *ChatHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_USER_ID", "user_id is required")
		return
	}

	chat, err := h.chatService.StartChat(r.Context(), userID, input.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotChatSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_CHAT_SELF", "Cannot start a chat with yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			internalError(w, h.log, "start chat", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListChats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "list chats", err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

type sendMessageInput struct {
	Text string `json:"text" validate:"notblank,max=4000"`
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	var input sendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), userID, chatID, input.Text)
	if err != nil {
		h.fail(w, "send message", err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	var before *uuid.UUID
	if beforeStr := r.URL.Query().Get("before"); beforeStr != "" {
		id, err := uuid.Parse(beforeStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid before cursor")
			return
		}
		before = &id
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	resp, err := h.chatService.ListMessages(r.Context(), userID, chatID, before, limit)
	if err != nil {
		h.fail(w, "list messages", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) MarkChatRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	n, err := h.chatService.MarkChatRead(r.Context(), userID, chatID)
	if err != nil {
		h.fail(w, "mark chat read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

func (h *ChatHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.chatService.MarkAllRead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "mark all messages read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

func (h *ChatHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrChatNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Chat not found")
	case errors.Is(err, service.ErrNotParticipant):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a participant of this chat")
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "MISSING_TEXT", "Message text is required")
	default:
		internalError(w, h.log, op, err)
	}
}
