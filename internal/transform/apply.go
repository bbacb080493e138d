package transform

import (
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/tabular"
)

// Apply runs a step against the named tables and returns the derived table.
// The tables map holds both raw datasets and the outputs of earlier steps,
// so steps can chain. Inputs are never mutated.
func Apply(step Step, tables map[string]tabular.Table) (tabular.Table, error) {
	if err := step.Validate(); err != nil {
		return tabular.Table{}, err
	}
	switch step.Type {
	case TypeConsentFilter:
		input, ok := tables[step.Input]
		if !ok {
			return tabular.Table{}, dErrors.Newf(dErrors.CodeConfig,
				"transform step %q: input dataset %q not loaded", step.Name, step.Input)
		}
		return ConsentFilter(input, step.Column, step.RequiredValue), nil
	case TypeJoin:
		left, ok := tables[step.Left]
		if !ok {
			return tabular.Table{}, dErrors.Newf(dErrors.CodeConfig,
				"transform step %q: left dataset %q not loaded", step.Name, step.Left)
		}
		right, ok := tables[step.Right]
		if !ok {
			return tabular.Table{}, dErrors.Newf(dErrors.CodeConfig,
				"transform step %q: right dataset %q not loaded", step.Name, step.Right)
		}
		return Join(left, right, step.On, step.Select)
	default:
		// Validate rejected unknown types already.
		return tabular.Table{}, dErrors.Newf(dErrors.CodeConfig,
			"transform step %q has unknown type %q", step.Name, step.Type)
	}
}
