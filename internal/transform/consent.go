package transform

import "datagov/pkg/tabular"

// ConsentFilter returns a new table keeping only the rows whose cell under
// column equals the required value. Rows missing the column never match —
// absence of consent is treated as no consent.
func ConsentFilter(input tabular.Table, column, required string) tabular.Table {
	out := tabular.Table{Columns: append([]string{}, input.Columns...)}
	for _, row := range input.Rows {
		cell := row.Cell(column)
		if !cell.IsAbsent() && cell.String() == required {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
