package persistence

import (
	"context"
	"database/sql"

	"github.com/petrijr/formflow/pkg/api"
)

// PostgresEventStore stores wizard events in PostgreSQL.
//
// It expects an *sql.DB that uses the pgx stdlib driver. The caller is
// responsible for importing it for its side effects:
//
//	_ "github.com/jackc/pgx/v5/stdlib"
type PostgresEventStore struct {
	db *sql.DB
}

var _ EventStore = (*PostgresEventStore)(nil)

// NewPostgresEventStore initializes the required schema in the given
// database and returns a new PostgresEventStore.
func NewPostgresEventStore(db *sql.DB) (*PostgresEventStore, error) {
	s := &PostgresEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS wizard_events (
			id BIGSERIAL PRIMARY KEY,
			wizard_id TEXT NOT NULL,
			wizard_name TEXT NOT NULL DEFAULT '',
			at BIGINT NOT NULL,
			type TEXT NOT NULL,
			step INTEGER NOT NULL DEFAULT 0,
			label TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			payload BYTEA
		);
		CREATE INDEX IF NOT EXISTS idx_wizard_events_wizard_id ON wizard_events(wizard_id, id);
	`)
	return err
}

func (s *PostgresEventStore) AppendEvent(ctx context.Context, ev api.TransitionEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	payload, err := EncodePayload(ev)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wizard_events (wizard_id, wizard_name, at, type, step, label, detail, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
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

func (s *PostgresEventStore) ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT wizard_id, wizard_name, at, type, step, label, detail, payload
		FROM wizard_events
		WHERE wizard_id = $1
		ORDER BY id ASC`, wizardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}
