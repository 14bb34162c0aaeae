package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/service"
	"github.com/vedran77/roomie/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type MatchHandler struct {
	matchService *service.MatchService
	log          *zap.Logger
}

func NewMatchHandler(matchService *service.MatchService, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{matchService: matchService, log: logger}
}

func (h *MatchHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		ReceiverID uuid.UUID `json:"receiver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.ReceiverID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_RECEIVER_ID", "receiver_id is required")
		return
	}

	req, err := h.matchService.SendRequest(r.Context(), userID, input.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotRequestSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_REQUEST_SELF", "Cannot send a request to yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrAlreadyMatched):
			writeError(w, http.StatusConflict, "ALREADY_MATCHED", "You are already matched")
		default:
			internalError(w, h.log, "send match request", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

func (h *MatchHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var input struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	req, err := h.matchService.Respond(r.Context(), userID, requestID, input.Action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAction):
			writeError(w, http.StatusBadRequest, "INVALID_ACTION", "Action must be accept or reject")
		case errors.Is(err, service.ErrRequestNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Match request not found")
		case errors.Is(err, service.ErrNotRequestReceiver):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the receiver can respond to this request")
		case errors.Is(err, service.ErrRequestNotPending):
			writeError(w, http.StatusConflict, "REQUEST_NOT_PENDING", "This request was already answered")
		default:
			internalError(w, h.log, "respond to match request", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *MatchHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.matchService.ListIncoming(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "list incoming requests", err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *MatchHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.matchService.ListOutgoing(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "list outgoing requests", err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListMatches(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "list matches", err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
