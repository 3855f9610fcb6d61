package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"vibewire/domain/state"
	"vibewire/domain/vibe"
	pkgerrors "vibewire/pkg/errors"
	"vibewire/pkg/utils"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS vibe_states (
	recipient_id  TEXT PRIMARY KEY,
	current_json  TEXT NOT NULL,
	history_json  TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	version       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vibe_history (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	recipient_id  TEXT NOT NULL,
	ts            TEXT NOT NULL,
	vibe_json     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vibe_history_recipient_ts
	ON vibe_history (recipient_id, ts);
`

// StateStore implements the StateStore port on a local SQLite database.
// Meant for single-node deployments; cross-process races are still caught
// by the version column.
type StateStore struct {
	db *sql.DB
}

// NewStateStore opens the database and runs migrations
func NewStateStore(dbPath string) (*StateStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("open sqlite", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pkgerrors.NewDatabaseError("migrate sqlite", err)
	}
	return &StateStore{db: db}, nil
}

// Close releases the underlying database handle
func (s *StateStore) Close() error {
	return s.db.Close()
}

// Load retrieves a recipient's state record
func (s *StateStore) Load(ctx context.Context, recipientID string) (*state.State, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT current_json, history_json, updated_at, version
		 FROM vibe_states WHERE recipient_id = ?`, recipientID)

	var currentJSON, historyJSON, updatedAt string
	var version int64
	if err := row.Scan(&currentJSON, &historyJSON, &updatedAt, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.NewNotFoundError("recipient state")
		}
		return nil, pkgerrors.NewDatabaseError("load state", err)
	}

	var current map[vibe.Dimension]int
	if err := json.Unmarshal([]byte(currentJSON), &current); err != nil {
		return nil, pkgerrors.NewDatabaseError("decode current scores", err)
	}
	var history []state.HistoryEntry
	if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
		return nil, pkgerrors.NewDatabaseError("decode history", err)
	}
	ts, err := utils.ParseSortableTime(updatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse updated at", err)
	}

	return &state.State{
		RecipientID: recipientID,
		Current:     current,
		History:     history,
		UpdatedAt:   ts,
		Version:     version,
	}, nil
}

// Save upserts the state record and appends the newest history entry,
// all in one transaction. A version mismatch rolls back as a conflict.
func (s *StateStore) Save(ctx context.Context, st *state.State) error {
	currentJSON, err := json.Marshal(st.Current)
	if err != nil {
		return pkgerrors.NewDatabaseError("encode current scores", err)
	}
	historyJSON, err := json.Marshal(st.History)
	if err != nil {
		return pkgerrors.NewDatabaseError("encode history", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pkgerrors.NewDatabaseError("begin tx", err)
	}
	defer tx.Rollback()

	newVersion := st.Version + 1
	updatedAt := utils.FormatSortableTime(st.UpdatedAt)

	if st.Version == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO vibe_states (recipient_id, current_json, history_json, updated_at, version)
			 VALUES (?, ?, ?, ?, ?)`,
			st.RecipientID, string(currentJSON), string(historyJSON), updatedAt, newVersion)
		if err != nil {
			// A concurrent first write hit the primary key before us.
			return pkgerrors.NewConflictError("state version mismatch")
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`UPDATE vibe_states
			 SET current_json = ?, history_json = ?, updated_at = ?, version = ?
			 WHERE recipient_id = ? AND version = ?`,
			string(currentJSON), string(historyJSON), updatedAt, newVersion,
			st.RecipientID, st.Version)
		if err != nil {
			return pkgerrors.NewDatabaseError("update state", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return pkgerrors.NewDatabaseError("update state", err)
		}
		if affected == 0 {
			return pkgerrors.NewConflictError("state version mismatch")
		}
	}

	if n := len(st.History); n > 0 {
		entry := st.History[n-1]
		vibeJSON, err := json.Marshal(entry.Vibe)
		if err != nil {
			return pkgerrors.NewDatabaseError("encode history vibe", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO vibe_history (recipient_id, ts, vibe_json) VALUES (?, ?, ?)`,
			st.RecipientID, utils.FormatSortableTime(entry.Timestamp), string(vibeJSON))
		if err != nil {
			return pkgerrors.NewDatabaseError("insert history entry", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pkgerrors.NewDatabaseError("commit state", err)
	}
	st.Version = newVersion
	return nil
}

// History returns persisted entries since the given time, oldest first
func (s *StateStore) History(ctx context.Context, recipientID string, since time.Time) ([]state.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, vibe_json FROM vibe_history
		 WHERE recipient_id = ? AND ts >= ?
		 ORDER BY ts ASC`,
		recipientID, utils.FormatSortableTime(since))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query history", err)
	}
	defer rows.Close()

	var entries []state.HistoryEntry
	for rows.Next() {
		var ts, vibeJSON string
		if err := rows.Scan(&ts, &vibeJSON); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan history", err)
		}
		parsed, err := utils.ParseSortableTime(ts)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("parse history timestamp", err)
		}
		var v vibe.Analysis
		if err := json.Unmarshal([]byte(vibeJSON), &v); err != nil {
			return nil, pkgerrors.NewDatabaseError("decode history vibe", err)
		}
		entries = append(entries, state.HistoryEntry{Timestamp: parsed, Vibe: v})
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("iterate history", err)
	}
	if entries == nil {
		entries = []state.HistoryEntry{}
	}
	return entries, nil
}
