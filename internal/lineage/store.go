// Package lineage records dataset provenance for audits: which inputs and
// which transformation produced each derived dataset.
package lineage

import "context"

// Store persists lineage records in insertion order.
type Store interface {
	Append(ctx context.Context, record Record) error
	List(ctx context.Context) ([]Record, error)
	ListByDataset(ctx context.Context, dataset string) ([]Record, error)
}
