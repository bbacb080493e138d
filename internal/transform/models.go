// Package transform applies governed, declarative transformations to
// tabular data: consent filtering and a validated inner join. Steps are
// declared in the policy document and dispatched by type, mirroring how
// quality rules dispatch — with one difference: an unknown step type is a
// config error, because silently skipping a transform would corrupt the
// lineage of everything downstream.
package transform

import (
	dErrors "datagov/pkg/domain-errors"
)

// StepType selects the transformation applied by a step.
type StepType string

const (
	TypeConsentFilter StepType = "consent_filter"
	TypeJoin          StepType = "join"
)

// Step declares one transformation producing a named derived dataset.
// Only the fields matching Type are consulted.
type Step struct {
	Name string   `yaml:"name"`
	Type StepType `yaml:"type"`

	// consent_filter
	Input         string `yaml:"input,omitempty"`
	Column        string `yaml:"column,omitempty"`
	RequiredValue string `yaml:"required_value,omitempty"`

	// join
	Left   string   `yaml:"left,omitempty"`
	Right  string   `yaml:"right,omitempty"`
	On     string   `yaml:"on,omitempty"`
	Select []string `yaml:"select,omitempty"`
}

// Validate checks structural completeness for the declared type.
func (s Step) Validate() error {
	if s.Name == "" {
		return dErrors.New(dErrors.CodeConfig, "transform step has no name")
	}
	switch s.Type {
	case TypeConsentFilter:
		if s.Input == "" || s.Column == "" || s.RequiredValue == "" {
			return dErrors.Newf(dErrors.CodeConfig,
				"consent_filter step %q needs input, column and required_value", s.Name)
		}
	case TypeJoin:
		if s.Left == "" || s.Right == "" || s.On == "" {
			return dErrors.Newf(dErrors.CodeConfig,
				"join step %q needs left, right and on", s.Name)
		}
	default:
		return dErrors.Newf(dErrors.CodeConfig,
			"transform step %q has unknown type %q", s.Name, s.Type)
	}
	return nil
}

// Sources lists the input dataset names, for lineage.
func (s Step) Sources() []string {
	switch s.Type {
	case TypeConsentFilter:
		return []string{s.Input}
	case TypeJoin:
		return []string{s.Left, s.Right}
	default:
		return nil
	}
}

// Describe renders a human-readable transformation description for lineage.
func (s Step) Describe() string {
	switch s.Type {
	case TypeConsentFilter:
		return "filter " + s.Input + " to rows where " + s.Column + " = " + s.RequiredValue
	case TypeJoin:
		return "inner join " + s.Left + " with " + s.Right + " on " + s.On
	default:
		return string(s.Type)
	}
}
