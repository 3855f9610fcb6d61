package handlers

import (
	"net/http"
	"time"

	"vibewire/application/services"
	"vibewire/domain/packet"
	"vibewire/domain/vibe"
	"vibewire/pkg/auth"
	"vibewire/pkg/common"
	"vibewire/pkg/utils"

	"go.uber.org/zap"
)

// PacketHandler handles vibe packet HTTP requests
type PacketHandler struct {
	packetService *services.PacketService
	logger        *zap.Logger
}

// NewPacketHandler creates a new packet handler
func NewPacketHandler(packetService *services.PacketService, logger *zap.Logger) *PacketHandler {
	return &PacketHandler{
		packetService: packetService,
		logger:        logger,
	}
}

// BlockSettingsRequest represents per-request recipient blocking preferences
type BlockSettingsRequest struct {
	PassiveAggressive bool `json:"passiveAggressive,omitempty"`
	HighStress        bool `json:"highStress,omitempty"`
	Masking           bool `json:"masking,omitempty"`
}

// SendPacketRequest represents the request body for sending a vibe packet
type SendPacketRequest struct {
	Text                string                `json:"text" validate:"required"`
	SenderID            string                `json:"senderId,omitempty"`
	RecipientID         string                `json:"recipientId,omitempty"`
	ExpiresInSeconds    *int64                `json:"expiresInSeconds,omitempty"`
	SenderMoodSignature map[string]int        `json:"senderMoodSignature,omitempty"`
	PreviousMessages    []string              `json:"previousMessages,omitempty" validate:"omitempty,max=10"`
	Block               *BlockSettingsRequest `json:"block,omitempty"`
}

// Send handles POST /api/v1/packets
func (h *PacketHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendPacketRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		common.RespondError(w, r, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, r, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	// Fall back to the authenticated caller when no sender is named.
	if req.SenderID == "" {
		if user, err := auth.GetUserFromContext(r.Context()); err == nil {
			req.SenderID = user.UserID
		}
	}

	input := services.SendInput{
		Text:        req.Text,
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
	}
	if req.ExpiresInSeconds != nil {
		input.ExpiresIn = time.Duration(*req.ExpiresInSeconds) * time.Second
	}
	if len(req.SenderMoodSignature) > 0 {
		sig := make(packet.MoodSignature, len(req.SenderMoodSignature))
		for dim, score := range req.SenderMoodSignature {
			sig[vibe.Dimension(dim)] = score
		}
		input.SenderMoodSignature = sig
	}
	if len(req.PreviousMessages) > 0 {
		input.Context = &vibe.Context{PreviousMessages: req.PreviousMessages}
	}
	if req.Block != nil {
		input.Block = vibe.BlockSettings{
			BlockPassiveAggressive: req.Block.PassiveAggressive,
			BlockHighStress:        req.Block.HighStress,
			BlockMasking:           req.Block.Masking,
		}
	}

	result, err := h.packetService.Send(r.Context(), input)
	if err != nil {
		common.RespondAppError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Blocked {
		status = http.StatusOK
	}
	common.RespondJSON(w, r, status, result)
}
