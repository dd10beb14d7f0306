package entity

// Table is a header row plus data rows, as read from an uploaded spreadsheet.
// Rows may be shorter than Columns; missing trailing cells read as empty.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the value at row i for column index col, or "" when absent.
func (t *Table) Cell(i, col int) string {
	if i < 0 || i >= len(t.Rows) || col < 0 {
		return ""
	}
	row := t.Rows[i]
	if col >= len(row) {
		return ""
	}

	return row[col]
}
