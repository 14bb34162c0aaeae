package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/service"
	"github.com/vedran77/roomie/internal/transport/http/middleware"
	"github.com/vedran77/roomie/pkg/validator"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	log      *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.fail(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.profiles.Update(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		h.fail(w, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Answers domain.Answers `json:"answers" validate:"quizanswers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	kind := domain.QuizKind(r.PathValue("kind"))
	user, err := h.profiles.SubmitQuiz(r.Context(), middleware.GetUserID(r.Context()), kind, input.Answers)
	if err != nil {
		h.fail(w, "submit quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Roommates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.profiles.Candidates(r.Context(), middleware.GetUserID(r.Context()), quizKind(r))
	if err != nil {
		h.fail(w, "list roommates", err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

func (h *ProfileHandler) Compatibility(w http.ResponseWriter, r *http.Request) {
	otherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	score, err := h.profiles.Compatibility(r.Context(), middleware.GetUserID(r.Context()), otherID, quizKind(r))
	if err != nil {
		h.fail(w, "compatibility", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"score": score})
}

// Breakdown serves POST /api/roommates/compatibility. userId may be omitted but
// must be the caller when present.
func (h *ProfileHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		UserID     *uuid.UUID `json:"userId"`
		RoommateID uuid.UUID  `json:"roommateId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.RoommateID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_ROOMMATE_ID", "roommateId is required")
		return
	}
	if input.UserID != nil && *input.UserID != userID {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "userId must be the authenticated user")
		return
	}

	b, err := h.profiles.Breakdown(r.Context(), userID, input.RoommateID)
	if err != nil {
		h.fail(w, "compatibility breakdown", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func quizKind(r *http.Request) domain.QuizKind {
	if k := r.URL.Query().Get("kind"); k != "" {
		return domain.QuizKind(k)
	}
	return domain.QuizPrimary
}

func (h *ProfileHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrInvalidQuizKind):
		writeError(w, http.StatusBadRequest, "INVALID_QUIZ_KIND", "Quiz kind must be primary or this-or-that")
	case errors.Is(err, service.ErrEmptyAnswers):
		writeError(w, http.StatusBadRequest, "EMPTY_ANSWERS", "At least one answer is required")
	case errors.Is(err, service.ErrQuizIncomplete):
		writeError(w, http.StatusConflict, "QUIZ_INCOMPLETE", "Both users must complete the quiz first")
	default:
		internalError(w, h.log, op, err)
	}
}
