package lineage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore persists lineage records in PostgreSQL for durable audits.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed lineage store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS lineage_records (
			position       SERIAL,
			id             UUID PRIMARY KEY,
			dataset        TEXT NOT NULL,
			sources        JSONB NOT NULL DEFAULT '[]',
			transformation TEXT NOT NULL DEFAULT '',
			executed_by    TEXT NOT NULL DEFAULT '',
			recorded_at    TIMESTAMPTZ NOT NULL,
			notes          TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("migrate lineage_records: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	sources, err := json.Marshal(record.Sources)
	if err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lineage_records (id, dataset, sources, transformation, executed_by, recorded_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.Dataset, sources, record.Transformation,
		record.ExecutedBy, record.Timestamp, record.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert lineage record: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `
		SELECT id, dataset, sources, transformation, executed_by, recorded_at, notes
		FROM lineage_records ORDER BY position`)
}

func (s *PostgresStore) ListByDataset(ctx context.Context, dataset string) ([]Record, error) {
	return s.query(ctx, `
		SELECT id, dataset, sources, transformation, executed_by, recorded_at, notes
		FROM lineage_records WHERE dataset = $1 ORDER BY position`, dataset)
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query lineage records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			record  Record
			sources []byte
		)
		if err := rows.Scan(&record.ID, &record.Dataset, &sources, &record.Transformation,
			&record.ExecutedBy, &record.Timestamp, &record.Notes); err != nil {
			return nil, fmt.Errorf("scan lineage record: %w", err)
		}
		if err := json.Unmarshal(sources, &record.Sources); err != nil {
			return nil, fmt.Errorf("decode sources: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
