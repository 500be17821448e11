package model

// RawTable is a header plus string rows as read from a delimited file.
// Rows may be ragged; missing trailing cells read as empty.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex maps header names to positions. Later duplicates win.
func (t RawTable) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		idx[name] = i
	}
	return idx
}

// Cell returns row[col] or "" when the row is short.
func (t RawTable) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
