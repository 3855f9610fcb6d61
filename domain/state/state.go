package state

import (
	"math"
	"time"

	"vibewire/domain/config"
	"vibewire/domain/vibe"
)

// HistoryEntry is one received vibe, append-only and immutable once stored
type HistoryEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Vibe      vibe.Analysis `json:"vibe"`
}

// State is a recipient's running mood: a decaying blend of every packet
// received, plus a bounded history for timeline reconstruction. Only the
// state machine writes Current and History; collaborators persist the
// struct as an opaque record.
type State struct {
	RecipientID string                 `json:"recipientId"`
	Current     map[vibe.Dimension]int `json:"current"`
	History     []HistoryEntry         `json:"history"`
	UpdatedAt   time.Time              `json:"updatedAt"`

	// Version supports optimistic concurrency in stores that need it.
	// Zero for a state that has never been persisted.
	Version int64 `json:"version"`
}

// Machine implements the vibe state lifecycle:
// uninitialized -> initial (neutral) -> updated* -> collected by the caller.
type Machine struct {
	cfg *config.DomainConfig
}

// NewMachine creates a state machine with the given tuning
func NewMachine(cfg *config.DomainConfig) *Machine {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Machine{cfg: cfg}
}

// NewInitialState returns a neutral state for a recipient's first contact.
// Every dimension starts at the configured baseline (the 0..100 midpoint),
// so the first blend pulls away from "even", not from "empty".
func (m *Machine) NewInitialState(recipientID string, now time.Time) *State {
	current := make(map[vibe.Dimension]int, len(vibe.Dimensions))
	for _, d := range vibe.Dimensions {
		current[d] = m.cfg.NeutralBaseline
	}
	return &State{
		RecipientID: recipientID,
		Current:     current,
		History:     []HistoryEntry{},
		UpdatedAt:   now,
	}
}

// Update blends an incoming vibe into the state and returns a new state;
// the input is never mutated. The previous blend decays exponentially
// toward the baseline with elapsed time (mood fades without reinforcement),
// then the incoming vibe contributes at a fixed weight. History is appended
// and capped, oldest first out.
func (m *Machine) Update(prev *State, incoming vibe.Analysis, now time.Time) *State {
	decay := m.decayFactor(now.Sub(prev.UpdatedAt))
	baseline := float64(m.cfg.NeutralBaseline)
	w := m.cfg.IncomingWeight

	current := make(map[vibe.Dimension]int, len(vibe.Dimensions))
	for _, d := range vibe.Dimensions {
		prevScore := float64(prev.Current[d])
		decayed := baseline + (prevScore-baseline)*decay
		blended := decayed*(1-w) + float64(incoming.Score(d))*w
		current[d] = vibe.ClampScore(int(math.Round(blended)))
	}

	history := make([]HistoryEntry, len(prev.History), len(prev.History)+1)
	copy(history, prev.History)
	history = append(history, HistoryEntry{Timestamp: now, Vibe: incoming})
	if len(history) > m.cfg.HistoryCapacity {
		history = history[len(history)-m.cfg.HistoryCapacity:]
	}

	return &State{
		RecipientID: prev.RecipientID,
		Current:     current,
		History:     history,
		UpdatedAt:   now,
		Version:     prev.Version,
	}
}

// decayFactor maps elapsed time onto (0,1]: 1 when no time has passed,
// half after one configured half-life.
func (m *Machine) decayFactor(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 1
	}
	halfLives := elapsed.Seconds() / m.cfg.DecayHalfLife.Seconds()
	return math.Pow(0.5, halfLives)
}
