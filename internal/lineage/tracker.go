package lineage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/requestcontext"
)

// Tracker records lineage for derived datasets. It stamps IDs and
// timestamps so callers only describe what happened.
type Tracker struct {
	store Store
}

// NewTracker creates a lineage tracker.
func NewTracker(store Store) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("lineage store is required")
	}
	return &Tracker{store: store}, nil
}

// Add appends a record, filling ID and Timestamp when unset. The timestamp
// comes from the request-scoped clock so all records of one run agree.
func (t *Tracker) Add(ctx context.Context, record Record) (Record, error) {
	if record.Dataset == "" {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "lineage record needs a dataset")
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = requestcontext.Now(ctx)
	}
	if err := t.store.Append(ctx, record); err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "append lineage record")
	}
	return record, nil
}

// List returns all records in insertion order.
func (t *Tracker) List(ctx context.Context) ([]Record, error) {
	records, err := t.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list lineage records")
	}
	return records, nil
}

// ListByDataset returns the records for one derived dataset.
func (t *Tracker) ListByDataset(ctx context.Context, dataset string) ([]Record, error) {
	records, err := t.store.ListByDataset(ctx, dataset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list lineage records")
	}
	return records, nil
}
