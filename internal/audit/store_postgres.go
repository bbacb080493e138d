package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			position    SERIAL,
			id          UUID PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			run_id      TEXT NOT NULL DEFAULT '',
			actor       TEXT NOT NULL DEFAULT '',
			role        TEXT NOT NULL DEFAULT '',
			action      TEXT NOT NULL,
			dataset     TEXT NOT NULL DEFAULT '',
			decision    TEXT NOT NULL DEFAULT '',
			detail      TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("migrate audit_events: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, recorded_at, run_id, actor, role, action, dataset, decision, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.Timestamp, event.RunID, event.Actor, event.Role,
		event.Action, event.Dataset, event.Decision, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Event, error) {
	return s.query(ctx, `
		SELECT id, recorded_at, run_id, actor, role, action, dataset, decision, detail
		FROM audit_events ORDER BY position`)
}

func (s *PostgresStore) ListByRun(ctx context.Context, runID string) ([]Event, error) {
	return s.query(ctx, `
		SELECT id, recorded_at, run_id, actor, role, action, dataset, decision, detail
		FROM audit_events WHERE run_id = $1 ORDER BY position`, runID)
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.RunID, &e.Actor, &e.Role,
			&e.Action, &e.Dataset, &e.Decision, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
