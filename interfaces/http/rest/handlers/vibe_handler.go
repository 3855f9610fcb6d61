package handlers

import (
	"net/http"

	"vibewire/application/services"
	"vibewire/domain/vibe"
	"vibewire/pkg/common"
	"vibewire/pkg/utils"

	"go.uber.org/zap"
)

// VibeHandler handles vibe analysis HTTP requests
type VibeHandler struct {
	vibeService *services.VibeService
	logger      *zap.Logger
}

// NewVibeHandler creates a new vibe handler
func NewVibeHandler(vibeService *services.VibeService, logger *zap.Logger) *VibeHandler {
	return &VibeHandler{
		vibeService: vibeService,
		logger:      logger,
	}
}

// AnalyzeRequest represents the request body for analyzing text
type AnalyzeRequest struct {
	Text             string   `json:"text" validate:"required"`
	PreviousMessages []string `json:"previousMessages,omitempty" validate:"omitempty,max=10"`
}

// Analyze handles POST /api/v1/vibes/analyze
func (h *VibeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		common.RespondError(w, r, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, r, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var vctx *vibe.Context
	if len(req.PreviousMessages) > 0 {
		vctx = &vibe.Context{PreviousMessages: req.PreviousMessages}
	}

	result, err := h.vibeService.Analyze(r.Context(), req.Text, vctx)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	common.RespondJSON(w, r, http.StatusOK, result)
}
