package quality

// Severity grades a detected issue.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RuleType selects the evaluator for a rule.
type RuleType string

const (
	TypeRecency    RuleType = "recency"
	TypePattern    RuleType = "pattern"
	TypeNumericMin RuleType = "numeric_min"
)

// Defaults applied when a rule omits its type-specific parameter.
const (
	DefaultMaxMonths = 12
	DefaultRegex     = ".*"
	DefaultMinValue  = 0.0
)

// Rule is a declarative quality rule bound to one column of one dataset.
// Only the parameter matching Type is consulted; nil pointers mean "use the
// default". Rules come from the policy document and are never mutated here.
type Rule struct {
	Name   string   `yaml:"name"`
	Type   RuleType `yaml:"type"`
	Column string   `yaml:"column"`

	// recency
	MaxMonths *int `yaml:"max_months,omitempty"`
	// pattern, anchored at the start of the cell text
	Regex string `yaml:"regex,omitempty"`
	// numeric_min, boundary value itself violates
	MinValue *float64 `yaml:"min_value,omitempty"`
}

func (r Rule) maxMonths() int {
	if r.MaxMonths != nil {
		return *r.MaxMonths
	}
	return DefaultMaxMonths
}

func (r Rule) regex() string {
	if r.Regex != "" {
		return r.Regex
	}
	return DefaultRegex
}

func (r Rule) minValue() float64 {
	if r.MinValue != nil {
		return *r.MinValue
	}
	return DefaultMinValue
}

// RuleSet maps a dataset name to its ordered quality rules. Loaded once per
// run and treated as read-only by the validator.
type RuleSet map[string][]Rule

// Issue records one detected violation for one row. Immutable once produced.
// The message carries the row index and offending value; Dataset is repeated
// by the pipeline when merging into the audit log (defense in depth).
type Issue struct {
	Dataset  string   `json:"dataset"`
	RuleName string   `json:"rule_name"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
