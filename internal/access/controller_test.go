package access

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "datagov/pkg/domain-errors"
)

type ControllerSuite struct {
	suite.Suite
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.controller = NewController()
	s.Require().NoError(s.controller.AddPolicy(Policy{
		Name:        "governance_read",
		Description: "governance office reads customer master data",
		Roles:       []string{"data_governance"},
		Datasets:    []string{"customers"},
		Permissions: []string{"read"},
	}))
	s.Require().NoError(s.controller.AddPolicy(Policy{
		Name:        "finance_read",
		Roles:       []string{"finance_analyst"},
		Datasets:    []string{"transactions"},
		Permissions: []string{"read", "export"},
	}))
}

func (s *ControllerSuite) TestAddPolicy() {
	s.Run("duplicate name conflicts", func() {
		err := s.controller.AddPolicy(Policy{Name: "governance_read"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeConflict))
	})

	s.Run("unnamed policy is a config error", func() {
		err := s.controller.AddPolicy(Policy{Roles: []string{"x"}})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeConfig))
	})
}

func (s *ControllerSuite) TestCheck() {
	s.Run("grant across role dataset and permission", func() {
		s.True(s.controller.Check("data_governance", "customers", "read"))
		s.True(s.controller.Check("finance_analyst", "transactions", "export"))
	})

	s.Run("deny when any part of the triple is missing", func() {
		s.False(s.controller.Check("data_governance", "customers", "write"))
		s.False(s.controller.Check("data_governance", "transactions", "read"))
		s.False(s.controller.Check("intern", "customers", "read"))
	})

	s.Run("any one policy granting is enough", func() {
		s.Require().NoError(s.controller.AddPolicy(Policy{
			Name:        "governance_write",
			Roles:       []string{"data_governance"},
			Datasets:    []string{"customers"},
			Permissions: []string{"write"},
		}))
		s.True(s.controller.Check("data_governance", "customers", "write"))
	})
}

func (s *ControllerSuite) TestExport() {
	exported := s.controller.Export()
	s.Require().Len(exported, 2)
	s.Equal("governance_read", exported[0].Name)
	s.Equal("finance_read", exported[1].Name)
}

func TestServiceAccounts(t *testing.T) {
	accounts := NewAccounts()
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}
	if err := accounts.Register("nightly-run", "data_governance", secret); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid secret yields role", func(t *testing.T) {
		role, err := accounts.Authenticate("nightly-run", secret)
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if role != "data_governance" {
			t.Fatalf("role = %q, want data_governance", role)
		}
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		_, err := accounts.Authenticate("nightly-run", "wrong")
		if !dErrors.Is(err, dErrors.CodeUnauthorized) {
			t.Fatalf("want unauthorized, got %v", err)
		}
	})

	t.Run("unknown account is indistinguishable from wrong secret", func(t *testing.T) {
		_, err := accounts.Authenticate("ghost", secret)
		if !dErrors.Is(err, dErrors.CodeUnauthorized) {
			t.Fatalf("want unauthorized, got %v", err)
		}
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		if err := accounts.Register("nightly-run", "other", secret); !dErrors.Is(err, dErrors.CodeConflict) {
			t.Fatalf("want conflict, got %v", err)
		}
	})
}
