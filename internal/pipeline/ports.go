package pipeline

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks AuditPublisher,LineageTracker

import (
	"context"

	"datagov/internal/audit"
	"datagov/internal/lineage"
)

// AuditPublisher emits governance events. The pipeline treats emits as
// fail-closed: a run that cannot be audited does not proceed.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LineageTracker records provenance for derived datasets.
type LineageTracker interface {
	Add(ctx context.Context, record lineage.Record) (lineage.Record, error)
	List(ctx context.Context) ([]lineage.Record, error)
}
