package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vibewire/domain/state"
	"vibewire/domain/vibe"
	pkgerrors "vibewire/pkg/errors"
)

// StateStore is an in-process StateStore for development and tests.
// Version checking matches the shared-storage implementations so the
// service's retry path behaves identically against it.
type StateStore struct {
	mu      sync.RWMutex
	states  map[string]*state.State
	history map[string][]state.HistoryEntry
}

// NewStateStore creates an empty in-memory store
func NewStateStore() *StateStore {
	return &StateStore{
		states:  make(map[string]*state.State),
		history: make(map[string][]state.HistoryEntry),
	}
}

// Load returns a copy of the recipient's state
func (s *StateStore) Load(_ context.Context, recipientID string) (*state.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[recipientID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("recipient state")
	}
	return cloneState(st), nil
}

// Save stores the state if its version still matches the stored record,
// then bumps the version. A mismatch is a conflict the caller resolves by
// re-reading.
func (s *StateStore) Save(_ context.Context, st *state.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.states[st.RecipientID]; ok && existing.Version != st.Version {
		return pkgerrors.NewConflictError("state version mismatch")
	}

	stored := cloneState(st)
	stored.Version = st.Version + 1
	s.states[st.RecipientID] = stored
	st.Version = stored.Version

	if n := len(st.History); n > 0 {
		s.history[st.RecipientID] = append(s.history[st.RecipientID], st.History[n-1])
	}
	return nil
}

// History returns persisted entries since the given time, oldest first
func (s *StateStore) History(_ context.Context, recipientID string, since time.Time) ([]state.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, ok := s.history[recipientID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("recipient history")
	}

	entries := make([]state.HistoryEntry, 0, len(all))
	for _, e := range all {
		if !e.Timestamp.Before(since) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func cloneState(st *state.State) *state.State {
	clone := &state.State{
		RecipientID: st.RecipientID,
		Current:     make(map[vibe.Dimension]int, len(st.Current)),
		History:     make([]state.HistoryEntry, len(st.History)),
		UpdatedAt:   st.UpdatedAt,
		Version:     st.Version,
	}
	for d, v := range st.Current {
		clone.Current[d] = v
	}
	copy(clone.History, st.History)
	return clone
}
