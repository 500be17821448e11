package model

import (
	"fmt"
	"strings"
)

// ColumnProfile summarises one raw column. Stats is nil when the column
// has non-numeric values.
type ColumnProfile struct {
	Stats *ColumnStats `json:"stats,omitempty"`
	Name  string       `json:"name"`
	Null  int          `json:"null"`
}

// ColumnStats mirrors a describe() row.
type ColumnStats struct {
	Distribution
	Std float64 `json:"std"`
}

// DatasetProfile is a quick look at a raw file before cleaning.
type DatasetProfile struct {
	Columns []ColumnProfile `json:"columns"`
	Rows    int             `json:"rows"`
}

func (p DatasetProfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d  Columns: %d\n\nMissing values:\n", p.Rows, len(p.Columns))
	for _, c := range p.Columns {
		fmt.Fprintf(&b, "  %-28s %d\n", c.Name, c.Null)
	}
	fmt.Fprintf(&b, "\n  %-28s %8s %12s %12s %12s %12s %12s %12s %12s\n",
		"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, c := range p.Columns {
		if c.Stats == nil {
			continue
		}
		s := c.Stats
		fmt.Fprintf(&b, "  %-28s %8d %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f\n",
			c.Name, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
	return b.String()
}
