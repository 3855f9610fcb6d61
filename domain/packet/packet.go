package packet

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"vibewire/domain/config"
	"vibewire/domain/vibe"
	pkgerrors "vibewire/pkg/errors"

	"github.com/google/uuid"
)

// MoodSignature is a compact, caller-supplied snapshot of the sender's
// recent baseline mood. The protocol carries it for drift comparison on
// the receiving side and never recomputes it.
type MoodSignature map[vibe.Dimension]int

// Packet is the transmissible unit of the protocol: one analysis plus
// sender identity and a validity window. Immutable once built; an expired
// packet is stale, not corrupt.
type Packet struct {
	ID                  string         `json:"id"`
	Text                string         `json:"text"`
	SenderID            string         `json:"senderId"`
	Vibe                vibe.Analysis  `json:"vibe"`
	SenderMoodSignature MoodSignature  `json:"senderMoodSignature,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	ExpiresAt           time.Time      `json:"expiresAt"`
	Context             []string       `json:"context,omitempty"`
}

// Options are the optional inputs to packet construction
type Options struct {
	ExpiresIn           time.Duration
	SenderMoodSignature MoodSignature
	Context             *vibe.Context
}

// ValidationResult lists every invariant a packet failed to hold
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Factory builds packets, running the detector over the message text.
// The detector is injected so the factory stays free of ambient state.
type Factory struct {
	detector *vibe.Detector
	cfg      *config.DomainConfig
}

// NewFactory creates a packet factory
func NewFactory(detector *vibe.Detector, cfg *config.DomainConfig) *Factory {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Factory{detector: detector, cfg: cfg}
}

// Create validates the inputs, analyzes the text, and assembles a packet.
// Empty or oversized text and a missing sender are validation errors; no
// packet is constructed for them.
func (f *Factory) Create(text, senderID string, opts *Options) (*Packet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, pkgerrors.NewValidationError("packet text cannot be empty")
	}
	if utf8.RuneCountInString(text) > f.cfg.MaxTextLength {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("packet text exceeds maximum length of %d characters", f.cfg.MaxTextLength))
	}
	if strings.TrimSpace(senderID) == "" {
		return nil, pkgerrors.NewValidationError("sender id is required")
	}

	if opts == nil {
		opts = &Options{}
	}
	expiresIn := opts.ExpiresIn
	if expiresIn == 0 {
		expiresIn = f.cfg.DefaultPacketTTL
	}
	if expiresIn > f.cfg.MaxPacketTTL {
		expiresIn = f.cfg.MaxPacketTTL
	}

	analysis := f.detector.Analyze(text, opts.Context)

	now := time.Now().UTC()
	pkt := &Packet{
		ID:        uuid.New().String(),
		Text:      text,
		SenderID:  senderID,
		Vibe:      analysis,
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
	if len(opts.SenderMoodSignature) > 0 {
		pkt.SenderMoodSignature = opts.SenderMoodSignature
	}
	if opts.Context != nil && len(opts.Context.PreviousMessages) > 0 {
		pkt.Context = opts.Context.PreviousMessages
	}
	return pkt, nil
}

// Validate re-checks the packet's own invariants. It runs right after
// creation and again by any consumer acting on a packet it did not build,
// since packets cross a trust boundary between sender and recipient.
func Validate(pkt *Packet, now time.Time) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}
	fail := func(msg string) {
		result.Valid = false
		result.Errors = append(result.Errors, msg)
	}

	if pkt == nil {
		fail("packet is nil")
		return result
	}
	if strings.TrimSpace(pkt.Text) == "" {
		fail("packet text is empty")
	}
	if strings.TrimSpace(pkt.SenderID) == "" {
		fail("sender id is missing")
	}
	if pkt.ID == "" {
		fail("packet id is missing")
	}
	if !pkt.ExpiresAt.After(pkt.CreatedAt) {
		fail("expiry does not follow creation time")
	}
	if !pkt.ExpiresAt.After(now) {
		fail("packet has expired")
	}
	if !pkt.Vibe.Complete() {
		fail("vibe analysis is missing dimensions")
	}
	return result
}

// IsStale reports whether the packet's validity window has passed.
// Stale packets should be silently dropped, never surfaced as errors.
func (p *Packet) IsStale(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}
