package service

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
)

// missingMarkers are cell values counted as missing, besides blanks.
var missingMarkers = map[string]bool{
	"NA": true, "N/A": true, "NaN": true, "nan": true, "null": true, "NULL": true, "None": true,
}

// Profiler summarises a raw table before cleaning.
type Profiler struct{}

// NewProfiler creates a new Profiler instance.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// Profile counts rows and missing cells per column, and computes
// describe() statistics for columns whose present values are all numeric.
func (p *Profiler) Profile(table model.RawTable) model.DatasetProfile {
	profile := model.DatasetProfile{Rows: len(table.Rows)}

	for col, name := range table.Header {
		cp := model.ColumnProfile{Name: name}
		values := make([]float64, 0, len(table.Rows))
		numeric := true

		for row := range table.Rows {
			cell := strings.TrimSpace(table.Cell(row, col))
			if cell == "" || missingMarkers[cell] {
				cp.Null++
				continue
			}
			if !numeric {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				numeric = false
				continue
			}
			values = append(values, v)
		}

		if numeric && len(values) > 0 {
			stats := &model.ColumnStats{Distribution: Describe(values)}
			if len(values) > 1 {
				stats.Std = stat.StdDev(values, nil)
			}
			cp.Stats = stats
		}
		profile.Columns = append(profile.Columns, cp)
	}

	return profile
}
