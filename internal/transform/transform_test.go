package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/tabular"
)

func customers() tabular.Table {
	t := tabular.New("customer_id", "name", "email", "consent_status")
	t.Append(tabular.Row{
		"customer_id": tabular.String("1"), "name": tabular.String("Ana"),
		"email": tabular.String("ana@example.com"), "consent_status": tabular.String("granted"),
	})
	t.Append(tabular.Row{
		"customer_id": tabular.String("2"), "name": tabular.String("Bruno"),
		"email": tabular.String("bruno@example.com"), "consent_status": tabular.String("revoked"),
	})
	t.Append(tabular.Row{
		"customer_id": tabular.String("3"), "name": tabular.String("Clara"),
		"email": tabular.String("clara@example.com"), "consent_status": tabular.Absent(),
	})
	return t
}

func transactions() tabular.Table {
	t := tabular.New("transaction_id", "customer_id", "amount")
	t.Append(tabular.Row{
		"transaction_id": tabular.String("t1"), "customer_id": tabular.String("1"),
		"amount": tabular.String("10"),
	})
	t.Append(tabular.Row{
		"transaction_id": tabular.String("t2"), "customer_id": tabular.String("2"),
		"amount": tabular.String("20"),
	})
	t.Append(tabular.Row{
		"transaction_id": tabular.String("t3"), "customer_id": tabular.String("1"),
		"amount": tabular.String("30"),
	})
	return t
}

func TestConsentFilter(t *testing.T) {
	input := customers()
	out := ConsentFilter(input, "consent_status", "granted")

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Ana", out.Rows[0].Cell("name").String())
	assert.Equal(t, input.Columns, out.Columns)

	// Input must be untouched.
	assert.Equal(t, 3, input.Len())
}

func TestConsentFilterAbsentNeverMatches(t *testing.T) {
	input := tabular.New("consent_status")
	input.Append(tabular.Row{"consent_status": tabular.Absent()})
	// Filtering for the empty string must not pick up absent cells.
	out := ConsentFilter(input, "consent_status", "")
	assert.Equal(t, 0, out.Len())
}

func TestJoin(t *testing.T) {
	consented := ConsentFilter(customers(), "consent_status", "granted")
	out, err := Join(transactions(), consented, "customer_id", []string{"name", "email"})
	require.NoError(t, err)

	// Only Ana consented; her two transactions survive, in left order.
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "t1", out.Rows[0].Cell("transaction_id").String())
	assert.Equal(t, "t3", out.Rows[1].Cell("transaction_id").String())
	assert.Equal(t, "Ana", out.Rows[0].Cell("name").String())
	assert.Equal(t, "ana@example.com", out.Rows[1].Cell("email").String())

	assert.Equal(t, []string{"transaction_id", "customer_id", "amount", "name", "email"}, out.Columns)
}

func TestJoinRejectsDuplicateRightKeys(t *testing.T) {
	right := tabular.New("customer_id", "name")
	right.Append(tabular.Row{"customer_id": tabular.String("1"), "name": tabular.String("Ana")})
	right.Append(tabular.Row{"customer_id": tabular.String("1"), "name": tabular.String("Ana Maria")})

	_, err := Join(transactions(), right, "customer_id", []string{"name"})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestJoinSkipsAbsentKeys(t *testing.T) {
	left := tabular.New("customer_id")
	left.Append(tabular.Row{"customer_id": tabular.Absent()})
	right := tabular.New("customer_id")
	right.Append(tabular.Row{"customer_id": tabular.String("1")})

	out, err := Join(left, right, "customer_id", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestStepValidate(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr bool
	}{
		{"valid consent filter", Step{
			Name: "s", Type: TypeConsentFilter, Input: "customers",
			Column: "consent_status", RequiredValue: "granted",
		}, false},
		{"valid join", Step{
			Name: "s", Type: TypeJoin, Left: "a", Right: "b", On: "id",
		}, false},
		{"missing name", Step{Type: TypeJoin, Left: "a", Right: "b", On: "id"}, true},
		{"consent filter missing column", Step{
			Name: "s", Type: TypeConsentFilter, Input: "customers", RequiredValue: "granted",
		}, true},
		{"join missing on", Step{Name: "s", Type: TypeJoin, Left: "a", Right: "b"}, true},
		{"unknown type", Step{Name: "s", Type: StepType("pivot")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.Is(err, dErrors.CodeConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tables := map[string]tabular.Table{
		"customers":    customers(),
		"transactions": transactions(),
	}

	filter := Step{
		Name: "customers_consenting", Type: TypeConsentFilter,
		Input: "customers", Column: "consent_status", RequiredValue: "granted",
	}
	consented, err := Apply(filter, tables)
	require.NoError(t, err)
	assert.Equal(t, 1, consented.Len())
	assert.Equal(t, []string{"customers"}, filter.Sources())

	tables["customers_consenting"] = consented

	join := Step{
		Name: "transactions_with_customers", Type: TypeJoin,
		Left: "transactions", Right: "customers_consenting",
		On: "customer_id", Select: []string{"name", "email"},
	}
	enriched, err := Apply(join, tables)
	require.NoError(t, err)
	assert.Equal(t, 2, enriched.Len())
	assert.Equal(t, []string{"transactions", "customers_consenting"}, join.Sources())
}

func TestApplyMissingInput(t *testing.T) {
	step := Step{
		Name: "s", Type: TypeConsentFilter,
		Input: "ghost", Column: "c", RequiredValue: "v",
	}
	_, err := Apply(step, map[string]tabular.Table{})
	assert.True(t, dErrors.Is(err, dErrors.CodeConfig))
}
