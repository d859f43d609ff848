package timetable

import "strings"

// Cells holding only these values are export placeholders, not data.
var placeholders = map[string]struct{}{
	"f": {},
	"N": {},
}

const joinSeparator = ", "

// Report describes what Normalize changed.
type Report struct {
	DroppedColumns []string `json:"dropped_columns"`
	MergedRows     int      `json:"merged_rows"`
	Rows           int      `json:"rows"`
}

// Normalize drops columns with no real data and folds continuation rows,
// those whose first cell is blank, into the row above. A normalized table
// normalizes to itself.
func Normalize(t Table) (Table, Report) {
	var report Report

	keep := keptColumns(t)
	header := make([]string, 0, len(keep))
	for i, name := range t.Header {
		if keep[i] {
			header = append(header, name)
		} else {
			report.DroppedColumns = append(report.DroppedColumns, name)
		}
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, raw := range t.Rows {
		row := make([]string, 0, len(header))
		for i, cell := range raw {
			if keep[i] {
				row = append(row, cell)
			}
		}

		if len(rows) > 0 && isContinuation(row) {
			fold(rows[len(rows)-1], row)
			report.MergedRows++
			continue
		}
		rows = append(rows, row)
	}

	report.Rows = len(rows)
	return Table{Header: header, Rows: rows}, report
}

// keptColumns marks the columns that carry at least one real value. With no
// data rows there is nothing to judge and every column is kept.
func keptColumns(t Table) []bool {
	keep := make([]bool, len(t.Header))
	if len(t.Rows) == 0 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if !keep[i] && isValue(cell) {
				keep[i] = true
			}
		}
	}
	return keep
}

func isValue(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return false
	}
	_, placeholder := placeholders[cell]
	return !placeholder
}

// A blank first cell also covers rows whose first three cells are blank.
func isContinuation(row []string) bool {
	return len(row) > 0 && strings.TrimSpace(row[0]) == ""
}

func fold(into, from []string) {
	for i, cell := range from {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if strings.TrimSpace(into[i]) == "" {
			into[i] = cell
			continue
		}
		into[i] = into[i] + joinSeparator + cell
	}
}
