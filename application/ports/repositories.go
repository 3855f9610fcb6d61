package ports

import (
	"context"
	"time"

	"vibewire/domain/packet"
	"vibewire/domain/state"
)

// StateStore defines the interface for recipient vibe-state persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type StateStore interface {
	// Load retrieves a recipient's state. Returns a NOT_FOUND error for a
	// recipient that has never received a packet.
	Load(ctx context.Context, recipientID string) (*state.State, error)

	// Save persists a state record. Implementations backed by shared
	// storage must reject a write whose Version no longer matches the
	// stored record with a CONFLICT error so the caller can re-read and
	// reapply; lost updates are not acceptable.
	Save(ctx context.Context, st *state.State) error

	// History returns the recipient's persisted history entries since the
	// given time, oldest first. May reach further back than the bounded
	// in-state history.
	History(ctx context.Context, recipientID string, since time.Time) ([]state.HistoryEntry, error)
}

// Notifier tells the surrounding messaging layer that a packet reached a
// recipient's state. Delivery of the notification is best-effort; a
// failure here never rolls back the state update.
type Notifier interface {
	NotifyPacket(ctx context.Context, recipientID string, pkt *packet.Packet) error
}
