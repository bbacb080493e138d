package quality

import (
	"fmt"
	"time"

	"datagov/pkg/tabular"
)

// dateLayouts are the ISO-8601 shapes accepted for recency cells, tried in
// order. Date-only is by far the common case in governed extracts.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// recencyEvaluator flags rows whose date column is older than the allowed
// number of whole calendar months, counted against the reference month.
//
// The month distance is calendar arithmetic, not day division: a cell dated
// the 28th of a month is as old as one dated the 1st. Future dates never
// violate — only staleness is checked, the asymmetry is intentional policy.
type recencyEvaluator struct{}

func (recencyEvaluator) evaluate(dataset string, rule Rule, table tabular.Table, ref time.Time) ([]Issue, error) {
	maxMonths := rule.maxMonths()

	var issues []Issue
	for idx, row := range table.Rows {
		raw := row.Cell(rule.Column).String()
		date, ok := parseDate(raw)
		if !ok {
			issues = append(issues, Issue{
				Dataset:  dataset,
				RuleName: rule.Name,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("row %d: invalid date %q", idx, raw),
			})
			continue
		}
		months := (ref.Year()-date.Year())*12 + int(ref.Month()) - int(date.Month())
		if months > maxMonths {
			issues = append(issues, Issue{
				Dataset:  dataset,
				RuleName: rule.Name,
				Severity: SeverityMedium,
				Message:  fmt.Sprintf("%s row %d: date is %d months old (limit %d)", dataset, idx, months, maxMonths),
			})
		}
	}
	return issues, nil
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
