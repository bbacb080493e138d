// Package quality implements the rule-driven data quality engine. It
// interprets declarative rule descriptors (recency, pattern, numeric_min)
// against tabular data and produces ordered issue records.
//
// The validator is a pure function of its inputs plus the externally owned
// rule set: it performs no I/O, mutates nothing, and is safe to call
// concurrently for different datasets as long as the rule set is not being
// mutated underneath it.
package quality

import (
	"context"
	"log/slog"
	"time"

	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/requestcontext"
	"datagov/pkg/tabular"
)

// evaluator checks one rule against a whole table. Implementations report
// data violations as issues and reserve errors for configuration defects
// (which abort the run — a config bug must never masquerade as a row issue).
type evaluator interface {
	evaluate(dataset string, rule Rule, table tabular.Table, ref time.Time) ([]Issue, error)
}

// Validator evaluates the rules registered for a dataset, in declared order,
// against every row.
type Validator struct {
	rules      RuleSet
	evaluators map[RuleType]evaluator
	logger     *slog.Logger
}

// Option configures the Validator.
type Option func(*Validator)

// WithLogger sets a logger for diagnostics (skipped rule types).
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator builds a validator over the given rule set. Adding a rule
// type means registering one more evaluator here; the dispatch loop stays
// untouched.
func NewValidator(rules RuleSet, opts ...Option) *Validator {
	v := &Validator{
		rules: rules,
		evaluators: map[RuleType]evaluator{
			TypeRecency:    recencyEvaluator{},
			TypePattern:    patternEvaluator{},
			TypeNumericMin: numericMinEvaluator{},
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every rule configured for the dataset and returns the issues
// in rule-declaration order, row order within each rule.
//
// A dataset with no configured rules passes silently. Rule types without a
// registered evaluator are skipped, not rejected: new types routinely land
// in policy documents before the engine learns them, and a partial audit is
// better than refusing to audit at all. Whether a rule's column exists in
// the table is the caller's contract to check — absent cells are evaluated
// like any other value.
//
// The recency reference date is the first day of the month of
// requestcontext.Now(ctx), computed once per call, so results are
// deterministic within a run and injectable in tests.
func (v *Validator) Validate(ctx context.Context, dataset string, table tabular.Table) ([]Issue, error) {
	ref := monthStart(requestcontext.Now(ctx))

	var issues []Issue
	for _, rule := range v.rules[dataset] {
		eval, ok := v.evaluators[rule.Type]
		if !ok {
			if v.logger != nil {
				v.logger.DebugContext(ctx, "skipping rule with unsupported type",
					"dataset", dataset,
					"rule", rule.Name,
					"type", string(rule.Type),
				)
			}
			continue
		}
		if rule.Name == "" {
			return nil, dErrors.Newf(dErrors.CodeConfig,
				"quality rule of type %q for dataset %q has no name", rule.Type, dataset)
		}
		found, err := eval.evaluate(dataset, rule, table, ref)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

// Supports reports whether the validator has an evaluator for the rule
// type. Callers use it to distinguish "rule will be skipped" from "rule
// will run", e.g. when pre-checking rule columns against a schema.
func (v *Validator) Supports(t RuleType) bool {
	_, ok := v.evaluators[t]
	return ok
}

// monthStart truncates a timestamp to the first day of its month in UTC.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
