// Package audit captures structured governance events. Publishers decide
// delivery semantics (synchronous fail-closed store writes, or a Kafka
// broker for downstream consumers); stores keep the queryable trail.
package audit

import "context"

// Store persists audit events in append order.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
	ListByRun(ctx context.Context, runID string) ([]Event, error)
}

// Publisher emits audit events. Implementations must not drop events
// silently: a failed emit returns an error and the caller decides whether
// the operation proceeds.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
