package model

import (
	"fmt"
	"strings"
)

// GroupRate is the mean default flag within one group.
type GroupRate struct {
	Group string  `json:"group"`
	Count int     `json:"count"`
	Rate  float64 `json:"default_rate"`
}

// Distribution is a five-number summary plus mean and count.
type Distribution struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// InsightsReport holds the aggregate statistics shown on the dashboard.
// Per-label slices are indexed by label value.
type InsightsReport struct {
	RateByGrade    []GroupRate     `json:"default_rate_by_grade"`
	RateByTerm     []GroupRate     `json:"default_rate_by_term"`
	AmountByLabel  [2]Distribution `json:"amount_borrowed_by_label"`
	RateByLabel    [2]Distribution `json:"borrower_rate_by_label"`
	LabelCounts    [2]int          `json:"label_counts"`
	TotalRows      int             `json:"total_rows"`
	OverallDefault float64         `json:"overall_default_rate"`
}

// String renders the report as console text.
func (r InsightsReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d\nDefault distribution: 0=%d 1=%d (rate %.4f)\n",
		r.TotalRows, r.LabelCounts[0], r.LabelCounts[1], r.OverallDefault)

	b.WriteString("\nDefault rate by grade:\n")
	for _, g := range r.RateByGrade {
		fmt.Fprintf(&b, "  %-4s %8d %8.4f\n", g.Group, g.Count, g.Rate)
	}
	b.WriteString("\nDefault rate by term:\n")
	for _, g := range r.RateByTerm {
		fmt.Fprintf(&b, "  %-4s %8d %8.4f\n", g.Group, g.Count, g.Rate)
	}

	writeDist := func(title string, d [2]Distribution) {
		fmt.Fprintf(&b, "\n%s:\n  %-5s %8s %12s %12s %12s %12s %12s %12s\n",
			title, "label", "count", "mean", "min", "25%", "50%", "75%", "max")
		for label, s := range d {
			fmt.Fprintf(&b, "  %-5d %8d %12.2f %12.2f %12.2f %12.2f %12.2f %12.2f\n",
				label, s.Count, s.Mean, s.Min, s.Q1, s.Median, s.Q3, s.Max)
		}
	}
	writeDist("Amount borrowed by default flag", r.AmountByLabel)
	writeDist("Borrower rate by default flag", r.RateByLabel)
	return b.String()
}
