package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vedran77/roomie/internal/service"
	"github.com/vedran77/roomie/internal/transport/http/middleware"
	"github.com/vedran77/roomie/pkg/validator"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	stats *service.DashboardService
	moods *service.MoodService
	log   *zap.Logger
}

func NewDashboardHandler(stats *service.DashboardService, moods *service.MoodService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{stats: stats, moods: moods, log: logger}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		internalError(w, h.log, "dashboard stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) RecordMood(w http.ResponseWriter, r *http.Request) {
	var input service.RecordMoodInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	mood, err := h.moods.Record(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMood) {
			writeError(w, http.StatusBadRequest, "INVALID_MOOD", "Unknown mood")
		} else {
			internalError(w, h.log, "record mood", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, mood)
}

func (h *DashboardHandler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	moods, err := h.moods.History(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		internalError(w, h.log, "mood history", err)
		return
	}
	writeJSON(w, http.StatusOK, moods)
}
