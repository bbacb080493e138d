package lineage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/requestcontext"
)

func TestTrackerAdd(t *testing.T) {
	tracker, err := NewTracker(NewInMemoryStore())
	require.NoError(t, err)

	runTime := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), runTime)

	record, err := tracker.Add(ctx, Record{
		Dataset:        "customers_consenting",
		Sources:        []string{"customers"},
		Transformation: "consent filter on consent_status",
		ExecutedBy:     "governed_pipeline",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, runTime, record.Timestamp)

	records, err := tracker.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "customers_consenting", records[0].Dataset)
}

func TestTrackerAddValidation(t *testing.T) {
	tracker, err := NewTracker(NewInMemoryStore())
	require.NoError(t, err)

	_, err = tracker.Add(context.Background(), Record{Sources: []string{"x"}})
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestTrackerListByDataset(t *testing.T) {
	tracker, err := NewTracker(NewInMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	for _, dataset := range []string{"a", "b", "a"} {
		_, err := tracker.Add(ctx, Record{Dataset: dataset})
		require.NoError(t, err)
	}

	records, err := tracker.ListByDataset(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestNewTrackerRequiresStore(t *testing.T) {
	_, err := NewTracker(nil)
	assert.Error(t, err)
}
