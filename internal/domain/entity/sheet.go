package entity

import "strings"

// Sheet is a worksheet converted to text: a header row and the data rows below it.
// Lines holds the 1-based line of each row in the converted file, for error messages.
type Sheet struct {
	Name   string     `json:"name"`
	Source string     `json:"source"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Lines  []int      `json:"lines,omitempty"`
}

// ColumnIndex returns the position of the named column.
func (s Sheet) ColumnIndex(name string) (int, bool) {
	for i, h := range s.Header {
		if strings.TrimSpace(h) == name {
			return i, true
		}
	}
	return -1, false
}

// Cell returns the trimmed value at (row, col); short rows yield "".
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(s.Rows[row][col])
}

// Line returns the source line of a row, falling back to its position.
func (s Sheet) Line(row int) int {
	if row >= 0 && row < len(s.Lines) {
		return s.Lines[row]
	}
	return row + 2
}

// Len returns the number of data rows.
func (s Sheet) Len() int {
	return len(s.Rows)
}
