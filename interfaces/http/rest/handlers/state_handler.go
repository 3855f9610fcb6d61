package handlers

import (
	"net/http"

	"vibewire/application/services"
	"vibewire/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StateHandler handles recipient mood state HTTP requests
type StateHandler struct {
	timelineService *services.TimelineService
	logger          *zap.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(timelineService *services.TimelineService, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		timelineService: timelineService,
		logger:          logger,
	}
}

// GetState handles GET /api/v1/recipients/{recipientID}/state
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "recipientID")
	if recipientID == "" {
		common.RespondError(w, r, http.StatusBadRequest, "VALIDATION", "recipientID is required")
		return
	}

	st, err := h.timelineService.State(r.Context(), recipientID)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondJSON(w, r, http.StatusOK, st)
}

// GetTimeline handles GET /api/v1/recipients/{recipientID}/timeline
func (h *StateHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "recipientID")
	if recipientID == "" {
		common.RespondError(w, r, http.StatusBadRequest, "VALIDATION", "recipientID is required")
		return
	}

	buckets, err := h.timelineService.Timeline(r.Context(), recipientID)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondJSON(w, r, http.StatusOK, map[string]interface{}{
		"recipientId": recipientID,
		"buckets":     buckets,
	})
}
