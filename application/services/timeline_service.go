package services

import (
	"context"
	"time"

	"vibewire/application/ports"
	"vibewire/domain/config"
	"vibewire/domain/state"
	pkgerrors "vibewire/pkg/errors"

	"go.uber.org/zap"
)

// TimelineService reads a recipient's state and serves the aggregated
// history view the clarity panels render.
type TimelineService struct {
	store      ports.StateStore
	aggregator *state.Aggregator
	cfg        *config.DomainConfig
	logger     *zap.Logger
}

// NewTimelineService creates a new timeline service
func NewTimelineService(
	store ports.StateStore,
	aggregator *state.Aggregator,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *TimelineService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &TimelineService{
		store:      store,
		aggregator: aggregator,
		cfg:        cfg,
		logger:     logger,
	}
}

// State returns the recipient's current blended state
func (s *TimelineService) State(ctx context.Context, recipientID string) (*state.State, error) {
	if recipientID == "" {
		return nil, pkgerrors.NewValidationError("recipient id is required")
	}
	return s.store.Load(ctx, recipientID)
}

// Timeline aggregates the recipient's persisted history into hourly
// buckets over the trailing span. A recipient with no history gets an
// empty timeline, not an error.
func (s *TimelineService) Timeline(ctx context.Context, recipientID string) ([]state.TimelineBucket, error) {
	if recipientID == "" {
		return nil, pkgerrors.NewValidationError("recipient id is required")
	}

	now := time.Now().UTC()
	history, err := s.store.History(ctx, recipientID, now.Add(-s.cfg.TimelineSpan))
	if pkgerrors.IsNotFound(err) {
		return []state.TimelineBucket{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load recipient history")
	}

	buckets := s.aggregator.Aggregate(history, now)
	s.logger.Debug("Aggregated timeline",
		zap.String("recipientID", recipientID),
		zap.Int("entries", len(history)),
		zap.Int("buckets", len(buckets)),
	)
	return buckets, nil
}
