package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"vibewire/domain/config"
	"vibewire/domain/vibe"
	pkgerrors "vibewire/pkg/errors"

	"go.uber.org/zap"
)

// VibeService runs the full analysis pipeline for one message: detector,
// humor module, and safety filter. Everything here is pure and stateless,
// so the service is safe to share across request handlers.
type VibeService struct {
	detector *vibe.Detector
	humor    *vibe.Humor
	safety   *vibe.SafetyFilter
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewVibeService creates a new vibe service
func NewVibeService(
	detector *vibe.Detector,
	humor *vibe.Humor,
	safety *vibe.SafetyFilter,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *VibeService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &VibeService{
		detector: detector,
		humor:    humor,
		safety:   safety,
		cfg:      cfg,
		logger:   logger,
	}
}

// AnalyzeResult bundles everything the pipeline reads off one message
type AnalyzeResult struct {
	Vibe    vibe.Analysis      `json:"vibe"`
	Safety  vibe.SafetyResult  `json:"safety"`
	Sarcasm vibe.SarcasmResult `json:"sarcasm"`
	NotOkay vibe.NotOkayResult `json:"notOkayButOkay"`
}

// Analyze validates the input and runs the pipeline
func (s *VibeService) Analyze(ctx context.Context, text string, vctx *vibe.Context) (*AnalyzeResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, pkgerrors.NewValidationError("text cannot be empty")
	}
	if utf8.RuneCountInString(text) > s.cfg.MaxTextLength {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("text exceeds maximum length of %d characters", s.cfg.MaxTextLength))
	}

	analysis := s.detector.Analyze(text, vctx)
	safety := s.safety.Analyze(analysis)

	s.logger.Debug("Analyzed message",
		zap.Int("stress", analysis.Score(vibe.DimensionStress)),
		zap.Int("warnings", len(safety.Warnings)),
		zap.Bool("passed", safety.Passed),
		zap.Duration("processingTime", analysis.ProcessingTime),
	)

	return &AnalyzeResult{
		Vibe:    analysis,
		Safety:  safety,
		Sarcasm: s.humor.DetectSarcasm(analysis),
		NotOkay: s.humor.CheckNotOkayButOkay(analysis),
	}, nil
}
