//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"datagov/internal/audit"
	"datagov/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	redpanda := containers.NewRedpandaContainer(t)

	publisher, err := audit.NewKafkaPublisher(ctx, []string{redpanda.Broker},
		audit.WithKafkaTopic("governance.audit.test"))
	require.NoError(t, err)
	defer publisher.Close()

	event := audit.Event{
		RunID:   "run-42",
		Actor:   "governed_pipeline",
		Action:  audit.ActionRunFinished,
		Dataset: "customers",
		Detail:  "4 quality issues, 2 lineage records",
	}
	require.NoError(t, publisher.Emit(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics("governance.audit.test"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "run-42", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, audit.ActionRunFinished, got.Action)
	require.Equal(t, "customers", got.Dataset)
	require.NotEmpty(t, got.ID)
	require.False(t, got.Timestamp.IsZero())
}

func TestKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := audit.NewKafkaPublisher(context.Background(), nil)
	require.Error(t, err)
}
