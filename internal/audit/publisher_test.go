package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagov/pkg/requestcontext"
)

func TestStorePublisherEmit(t *testing.T) {
	store := NewInMemoryStore()
	publisher, err := NewStorePublisher(store)
	require.NoError(t, err)

	runTime := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), runTime)

	require.NoError(t, publisher.Emit(ctx, Event{
		RunID:   "run-1",
		Action:  ActionAccessGranted,
		Dataset: "customers",
		Role:    "data_governance",
	}))

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.Equal(t, runTime, events[0].Timestamp)
	assert.Equal(t, ActionAccessGranted, events[0].Action)
}

func TestStorePublisherRequiresAction(t *testing.T) {
	publisher, err := NewStorePublisher(NewInMemoryStore())
	require.NoError(t, err)
	assert.Error(t, publisher.Emit(context.Background(), Event{RunID: "run-1"}))
}

func TestStorePublisherFailsClosed(t *testing.T) {
	publisher, err := NewStorePublisher(failingStore{})
	require.NoError(t, err)
	err = publisher.Emit(context.Background(), Event{Action: ActionRunStarted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit persistence failed")
}

func TestNewStorePublisherRequiresStore(t *testing.T) {
	_, err := NewStorePublisher(nil)
	assert.Error(t, err)
}

func TestListByRun(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for _, runID := range []string{"a", "b", "a"} {
		require.NoError(t, store.Append(ctx, Event{ID: uuid.New(), RunID: runID, Action: "x"}))
	}
	events, err := store.ListByRun(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error { return errors.New("disk full") }
func (failingStore) List(context.Context) ([]Event, error) {
	return nil, errors.New("disk full")
}
func (failingStore) ListByRun(context.Context, string) ([]Event, error) {
	return nil, errors.New("disk full")
}
