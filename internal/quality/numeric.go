package quality

import (
	"fmt"
	"time"

	"datagov/pkg/tabular"
)

// numericMinEvaluator flags rows whose cell cannot be coerced to a number or
// whose numeric value sits at or below the configured minimum. The boundary
// value itself is a violation.
type numericMinEvaluator struct{}

func (numericMinEvaluator) evaluate(dataset string, rule Rule, table tabular.Table, _ time.Time) ([]Issue, error) {
	minValue := rule.minValue()

	var issues []Issue
	for idx, row := range table.Rows {
		cell := row.Cell(rule.Column)
		value, ok := cell.Float()
		if !ok {
			issues = append(issues, Issue{
				Dataset:  dataset,
				RuleName: rule.Name,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("row %d: value %q is not numeric", idx, cell.String()),
			})
			continue
		}
		if value <= minValue {
			issues = append(issues, Issue{
				Dataset:  dataset,
				RuleName: rule.Name,
				Severity: SeverityMedium,
				Message:  fmt.Sprintf("row %d: value %v is at or below minimum %v", idx, value, minValue),
			})
		}
	}
	return issues, nil
}
