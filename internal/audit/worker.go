package audit

import (
	"context"
)

// Worker consumes audit events from a channel and forwards them to a
// publisher. It decouples event production from broker latency for callers
// that do not need fail-closed semantics (run summaries, metrics events).
type Worker struct {
	publisher Publisher
	inbox     <-chan Event
}

func NewWorker(publisher Publisher, inbox <-chan Event) *Worker {
	return &Worker{publisher: publisher, inbox: inbox}
}

// Run forwards events until the context is cancelled or an emit fails.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil {
				return err
			}
		}
	}
}

// Fanout emits each event to every publisher in order, stopping at the
// first failure. Use it to pair a fail-closed store write with a broker
// publish.
type Fanout struct {
	publishers []Publisher
}

func NewFanout(publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers}
}

func (f *Fanout) Emit(ctx context.Context, event Event) error {
	for _, p := range f.publishers {
		if err := p.Emit(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fanout) Close() error {
	var firstErr error
	for _, p := range f.publishers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
