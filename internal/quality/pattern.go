package quality

import (
	"fmt"
	"regexp"
	"time"

	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/tabular"
)

// patternEvaluator flags rows whose stringified cell fails a regular
// expression anchored at the start of the value. A partial match from
// position 0 suffices; rules wanting a full match anchor the end themselves.
type patternEvaluator struct{}

func (patternEvaluator) evaluate(dataset string, rule Rule, table tabular.Table, _ time.Time) ([]Issue, error) {
	// The non-capturing wrapper forces match-at-start semantics without
	// changing what the rule's own anchors mean.
	re, err := regexp.Compile("^(?:" + rule.regex() + ")")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfig,
			fmt.Sprintf("quality rule %q: regex %q does not compile", rule.Name, rule.regex()))
	}

	var issues []Issue
	for idx, row := range table.Rows {
		raw := row.Cell(rule.Column).String()
		if !re.MatchString(raw) {
			issues = append(issues, Issue{
				Dataset:  dataset,
				RuleName: rule.Name,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("row %d: value %q does not match expected pattern", idx, raw),
			})
		}
	}
	return issues, nil
}
