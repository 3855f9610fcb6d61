package services

import (
	"context"
	"sync"
	"time"

	"vibewire/application/ports"
	"vibewire/domain/packet"
	"vibewire/domain/state"
	"vibewire/domain/vibe"
	pkgerrors "vibewire/pkg/errors"
	"vibewire/pkg/observability"

	"go.uber.org/zap"
)

// saveRetries bounds the optimistic-concurrency retry loop. Under
// contention the re-read picks up the other writer's blend, so a handful
// of attempts is plenty.
const saveRetries = 3

// PacketService builds packets and applies them to recipient states.
// The read-modify-write per recipient is serialized through a per-recipient
// mutex; stores shared across processes additionally reject stale writes by
// version, which the service resolves by re-reading and reapplying.
type PacketService struct {
	factory  *packet.Factory
	safety   *vibe.SafetyFilter
	machine  *state.Machine
	store    ports.StateStore
	notifier ports.Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger

	recipientLocks sync.Map // recipientID -> *sync.Mutex
}

// NewPacketService creates a new packet service
func NewPacketService(
	factory *packet.Factory,
	safety *vibe.SafetyFilter,
	machine *state.Machine,
	store ports.StateStore,
	notifier ports.Notifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *PacketService {
	return &PacketService{
		factory:  factory,
		safety:   safety,
		machine:  machine,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// SendInput carries one send-packet request
type SendInput struct {
	Text                string
	SenderID            string
	RecipientID         string
	ExpiresIn           time.Duration
	SenderMoodSignature packet.MoodSignature
	Context             *vibe.Context
	Block               vibe.BlockSettings
}

// SendResult is the outcome of a send. Blocked is a first-class outcome,
// not an error: the packet was built and analyzed but delivery was
// suppressed by the safety settings.
type SendResult struct {
	Packet  *packet.Packet    `json:"packet"`
	Safety  vibe.SafetyResult `json:"safety"`
	Blocked bool              `json:"blocked"`
	State   *state.State      `json:"state,omitempty"`
}

// Send builds and validates a packet, runs the safety gate, and — when a
// recipient is addressed and the gate allows it — blends the packet into
// that recipient's state and notifies the messaging layer.
func (s *PacketService) Send(ctx context.Context, input SendInput) (*SendResult, error) {
	pkt, err := s.factory.Create(input.Text, input.SenderID, &packet.Options{
		ExpiresIn:           input.ExpiresIn,
		SenderMoodSignature: input.SenderMoodSignature,
		Context:             input.Context,
	})
	if err != nil {
		return nil, err
	}

	if validation := packet.Validate(pkt, time.Now().UTC()); !validation.Valid {
		return nil, pkgerrors.NewValidationError("invalid packet").WithDetails(map[string]interface{}{
			"errors": validation.Errors,
		})
	}

	safety := s.safety.Analyze(pkt.Vibe)
	result := &SendResult{Packet: pkt, Safety: safety}

	if s.safety.ShouldBlock(pkt.Vibe, input.Block) {
		result.Blocked = true
		s.metrics.PacketsBlocked.Inc()
		s.logger.Info("Packet blocked by safety settings",
			zap.String("packetID", pkt.ID),
			zap.String("senderID", pkt.SenderID),
		)
		return result, nil
	}

	if input.RecipientID != "" {
		st, err := s.applyToRecipient(ctx, input.RecipientID, pkt)
		if err != nil {
			return nil, err
		}
		result.State = st
	}

	s.metrics.PacketsSent.Inc()
	for _, w := range safety.Warnings {
		s.metrics.SafetyWarnings.WithLabelValues(w.Type, string(w.Severity)).Inc()
	}
	return result, nil
}

// applyToRecipient runs the serialized load -> update -> store cycle and
// fires the delivery notification. A packet that expired between build and
// apply is stale: it is dropped silently and the untouched state returned.
func (s *PacketService) applyToRecipient(ctx context.Context, recipientID string, pkt *packet.Packet) (*state.State, error) {
	mu := s.lockFor(recipientID)
	mu.Lock()
	defer mu.Unlock()

	var st *state.State
	for attempt := 0; attempt < saveRetries; attempt++ {
		now := time.Now().UTC()

		prev, err := s.store.Load(ctx, recipientID)
		if pkgerrors.IsNotFound(err) {
			prev = s.machine.NewInitialState(recipientID, now)
		} else if err != nil {
			return nil, pkgerrors.Wrap(err, "load recipient state")
		}

		if pkt.IsStale(now) {
			s.logger.Debug("Dropping stale packet",
				zap.String("packetID", pkt.ID),
				zap.String("recipientID", recipientID),
			)
			return prev, nil
		}

		st = s.machine.Update(prev, pkt.Vibe, now)
		err = s.store.Save(ctx, st)
		if err == nil {
			break
		}
		if !pkgerrors.IsConflict(err) {
			return nil, pkgerrors.Wrap(err, "save recipient state")
		}
		s.logger.Debug("State version conflict, retrying",
			zap.String("recipientID", recipientID),
			zap.Int("attempt", attempt+1),
		)
		st = nil
	}
	if st == nil {
		return nil, pkgerrors.NewConflictError("recipient state is under heavy contention")
	}
	s.metrics.StateUpdates.Inc()

	if err := s.notifier.NotifyPacket(ctx, recipientID, pkt); err != nil {
		// Best-effort: the state update stands even if the notification
		// never leaves the building.
		s.logger.Warn("Failed to notify recipient",
			zap.String("recipientID", recipientID),
			zap.Error(err),
		)
	}
	return st, nil
}

func (s *PacketService) lockFor(recipientID string) *sync.Mutex {
	mu, _ := s.recipientLocks.LoadOrStore(recipientID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
