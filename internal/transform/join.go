package transform

import (
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/tabular"
)

// Join performs an inner join of left against right on the named key column,
// appending the selected right-side columns to each matching left row. The
// join must be many-to-one: duplicate keys on the right are rejected rather
// than fanning rows out, since an accidental one-to-many would silently
// multiply regulated records.
//
// Left row order is preserved; rows without a match are dropped (inner).
func Join(left, right tabular.Table, on string, selectCols []string) (tabular.Table, error) {
	index := make(map[string]tabular.Row, len(right.Rows))
	for i, row := range right.Rows {
		key := row.Cell(on)
		if key.IsAbsent() {
			continue
		}
		k := key.String()
		if _, dup := index[k]; dup {
			return tabular.Table{}, dErrors.Newf(dErrors.CodeInvalidInput,
				"join on %q is not many-to-one: right side row %d repeats key %q", on, i, k)
		}
		index[k] = row
	}

	columns := append([]string{}, left.Columns...)
	for _, col := range selectCols {
		if !left.HasColumn(col) {
			columns = append(columns, col)
		}
	}

	out := tabular.Table{Columns: columns}
	for _, row := range left.Rows {
		key := row.Cell(on)
		if key.IsAbsent() {
			continue
		}
		match, ok := index[key.String()]
		if !ok {
			continue
		}
		joined := make(tabular.Row, len(row)+len(selectCols))
		for col, v := range row {
			joined[col] = v
		}
		for _, col := range selectCols {
			joined[col] = match.Cell(col)
		}
		out.Rows = append(out.Rows, joined)
	}
	return out, nil
}
