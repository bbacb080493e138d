//go:build integration

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"datagov/internal/catalog"
	"datagov/pkg/platform/sentinel"
	"datagov/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *catalog.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = catalog.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "catalog_assets"))
}

func (s *PostgresStoreSuite) TestRegisterAndGet() {
	ctx := context.Background()
	asset := catalog.Asset{
		Name:        "customers",
		Description: "Customer master data",
		Owner:       "privacy_officer",
		Sensitivity: "high",
		Tags:        []string{"personal", "lgpd"},
		Source:      "customers.csv",
		Schema:      map[string]string{"customer_id": "int", "last_update": "date"},
		Regulations: []string{"lgpd"},
		ReadRole:    "data_governance",
	}

	s.Require().NoError(s.store.Register(ctx, asset))

	got, err := s.store.Get(ctx, "customers")
	s.Require().NoError(err)
	s.Equal(asset, *got)
}

func (s *PostgresStoreSuite) TestRegisterDuplicateConflicts() {
	ctx := context.Background()
	asset := catalog.Asset{Name: "customers", Source: "customers.csv"}

	s.Require().NoError(s.store.Register(ctx, asset))
	err := s.store.Register(ctx, asset)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "nonexistent")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListPreservesRegistrationOrder() {
	ctx := context.Background()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		s.Require().NoError(s.store.Register(ctx, catalog.Asset{Name: name, Source: name + ".csv"}))
	}

	assets, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(assets, 3)
	s.Equal("zeta", assets[0].Name)
	s.Equal("alpha", assets[1].Name)
	s.Equal("mid", assets[2].Name)
}
