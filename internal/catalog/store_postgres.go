package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"datagov/pkg/platform/sentinel"
)

// PostgresStore persists catalog assets in PostgreSQL. Structured fields
// (tags, schema, regulations) are stored as jsonb.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed catalog store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_assets (
			position     SERIAL,
			name         TEXT PRIMARY KEY,
			description  TEXT NOT NULL DEFAULT '',
			owner        TEXT NOT NULL DEFAULT '',
			sensitivity  TEXT NOT NULL DEFAULT '',
			tags         JSONB NOT NULL DEFAULT '[]',
			source_path  TEXT NOT NULL DEFAULT '',
			asset_schema JSONB NOT NULL DEFAULT '{}',
			regulations  JSONB NOT NULL DEFAULT '[]',
			read_role    TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("migrate catalog_assets: %w", err)
	}
	return nil
}

func (s *PostgresStore) Register(ctx context.Context, asset Asset) error {
	tags, err := json.Marshal(asset.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	schema, err := json.Marshal(asset.Schema)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	regulations, err := json.Marshal(asset.Regulations)
	if err != nil {
		return fmt.Errorf("encode regulations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_assets
			(name, description, owner, sensitivity, tags, source_path, asset_schema, regulations, read_role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		asset.Name, asset.Description, asset.Owner, asset.Sensitivity,
		tags, asset.Source, schema, regulations, asset.ReadRole,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert catalog asset: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, name string) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, description, owner, sensitivity, tags, source_path, asset_schema, regulations, read_role
		FROM catalog_assets WHERE name = $1`, name)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get catalog asset: %w", err)
	}
	return asset, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, owner, sensitivity, tags, source_path, asset_schema, regulations, read_role
		FROM catalog_assets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list catalog assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog asset: %w", err)
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*Asset, error) {
	var (
		asset       Asset
		tags        []byte
		schema      []byte
		regulations []byte
	)
	if err := row.Scan(&asset.Name, &asset.Description, &asset.Owner, &asset.Sensitivity,
		&tags, &asset.Source, &schema, &regulations, &asset.ReadRole); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &asset.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(schema, &asset.Schema); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := json.Unmarshal(regulations, &asset.Regulations); err != nil {
		return nil, fmt.Errorf("decode regulations: %w", err)
	}
	return &asset, nil
}
