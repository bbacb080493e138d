//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"datagov/internal/audit"
	"datagov/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *audit.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = audit.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *PostgresStoreSuite) event(runID, action string) audit.Event {
	return audit.Event{
		ID:        uuid.New(),
		Timestamp: time.Date(2026, time.August, 15, 8, 0, 0, 0, time.UTC),
		RunID:     runID,
		Actor:     "governed_pipeline",
		Role:      "data_governance",
		Action:    action,
		Dataset:   "customers",
		Decision:  "allow",
		Detail:    "integration test",
	}
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	evt := s.event("run-1", audit.ActionRunStarted)

	s.Require().NoError(s.store.Append(ctx, evt))

	events, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(evt.ID, events[0].ID)
	s.Equal(audit.ActionRunStarted, events[0].Action)
	s.Equal("allow", events[0].Decision)
}

func (s *PostgresStoreSuite) TestListByRun() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, s.event("run-1", audit.ActionRunStarted)))
	s.Require().NoError(s.store.Append(ctx, s.event("run-2", audit.ActionRunStarted)))
	s.Require().NoError(s.store.Append(ctx, s.event("run-1", audit.ActionRunFinished)))

	events, err := s.store.ListByRun(ctx, "run-1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionRunStarted, events[0].Action)
	s.Equal(audit.ActionRunFinished, events[1].Action)
}
