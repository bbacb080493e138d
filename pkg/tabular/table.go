// Package tabular holds the in-memory representation of row-oriented data
// moving through the pipeline: an ordered sequence of rows, each a mapping
// from column name to a cell Value. Row order is significant — quality
// issues and lineage reference row positions.
package tabular

// Row maps column names to cell values for a single record.
type Row map[string]Value

// Cell returns the value under the given column, or Absent if the row has no
// such column.
func (r Row) Cell(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Absent()
}

// Table is an ordered collection of rows with a declared column order.
// Callers own the table; pipeline stages never mutate one in place — they
// build new tables instead.
type Table struct {
	Columns []string
	Rows    []Row
}

// New builds an empty table with the given column order.
func New(columns ...string) Table {
	return Table{Columns: columns}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table declares the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Convenience for tests and builders.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}
