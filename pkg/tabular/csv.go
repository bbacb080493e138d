package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses CSV input into a Table. Header names are trimmed of
// surrounding whitespace. Cells stay text at ingestion — typing decisions
// belong to the consumers (quality rules coerce on demand). Empty cells map
// to Absent so coercion failures can name the missing value explicitly.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return Table{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	table := Table{Columns: columns}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv line %d: %w", line, err)
		}
		row := make(Row, len(columns))
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			if cell == "" {
				row[columns[i]] = Absent()
				continue
			}
			row[columns[i]] = String(cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// WriteCSV renders the table with its declared column order. Absent cells
// render as empty fields.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = row.Cell(col).String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
