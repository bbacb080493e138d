package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"datagov/pkg/requestcontext"
)

// StorePublisher emits audit events with synchronous, fail-closed semantics:
// the caller blocks until the store write succeeds, and a failed write must
// fail the calling operation. A partial audit trail that looks complete is
// worse than an aborted run.
type StorePublisher struct {
	store  Store
	logger *slog.Logger
}

// StoreOption configures the StorePublisher.
type StoreOption func(*StorePublisher)

// WithStoreLogger sets a logger for error reporting.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(p *StorePublisher) {
		p.logger = logger
	}
}

// NewStorePublisher creates a fail-closed publisher over the given store.
func NewStorePublisher(store Store, opts ...StoreOption) (*StorePublisher, error) {
	if store == nil {
		return nil, fmt.Errorf("audit store is required")
	}
	p := &StorePublisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Emit synchronously writes the event, stamping ID and Timestamp when unset.
func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	if event.Action == "" {
		return fmt.Errorf("audit event requires an action")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if err := p.store.Append(ctx, event); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit persistence failed",
				"action", event.Action,
				"run_id", event.RunID,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}
	return nil
}

// Close is a no-op for the synchronous publisher.
func (p *StorePublisher) Close() error { return nil }
