package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// SQLiteEventStore stores wizard events in SQLite.
//
// It expects an *sql.DB opened with the "sqlite" driver from
// modernc.org/sqlite.
type SQLiteEventStore struct {
	db *sql.DB
}

// Ensure SQLiteEventStore implements the interfaces.
var _ EventStore = (*SQLiteEventStore)(nil)

func NewSQLiteEventStore(db *sql.DB) (*SQLiteEventStore, error) {
	s := &SQLiteEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS wizard_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			wizard_id TEXT NOT NULL,
			wizard_name TEXT NOT NULL DEFAULT '',
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			step INTEGER NOT NULL DEFAULT 0,
			label TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			payload BLOB
		);
		CREATE INDEX IF NOT EXISTS idx_wizard_events_wizard_id ON wizard_events(wizard_id, id);
	`)
	return err
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, ev api.TransitionEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	payload, err := EncodePayload(ev)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wizard_events (wizard_id, wizard_name, at, type, step, label, detail, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.WizardID,
		ev.WizardName,
		eventTime(ev).UnixNano(),
		string(ev.Type),
		ev.Step,
		ev.Label,
		ev.Detail,
		payload,
	)
	return err
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT wizard_id, wizard_name, at, type, step, label, detail, payload
		FROM wizard_events
		WHERE wizard_id = ?
		ORDER BY id ASC`, wizardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// scanEvents reads rows shaped like the wizard_events select lists of the
// SQL stores.
func scanEvents(rows *sql.Rows) ([]api.TransitionEvent, error) {
	var out []api.TransitionEvent
	for rows.Next() {
		var (
			id      string
			name    string
			atN     int64
			typ     string
			step    int
			label   string
			detail  string
			payload []byte
		)
		if err := rows.Scan(&id, &name, &atN, &typ, &step, &label, &detail, &payload); err != nil {
			return nil, err
		}
		ev := api.TransitionEvent{
			WizardID:   id,
			WizardName: name,
			At:         time.Unix(0, atN),
			Type:       api.EventType(typ),
			Step:       step,
			Label:      label,
			Detail:     detail,
		}
		if err := DecodePayload(payload, &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
