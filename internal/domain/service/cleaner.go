package service

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// CleanReport summarises one cleaning pass.
type CleanReport struct {
	Dropped        []*model.MalformedInputError
	DroppedColumns []string
	LabelCounts    [2]int
	RowsRead       int
	RowsKept       int
	// LabelFromFlag is set when the input had no status column and its
	// existing default_flag was carried over.
	LabelFromFlag bool
}

// Cleaner derives the default label and projects raw rows onto the
// retained columns.
type Cleaner struct{}

// NewCleaner creates a new Cleaner instance.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean converts a raw table into labelled records. Rows with a missing or
// unparsable retained value are skipped and listed in the report. The only
// fatal errors are structural: a retained column absent from the header,
// or no way to derive the label.
func (c *Cleaner) Clean(table model.RawTable) ([]model.LabeledLoan, CleanReport, error) {
	idx := table.ColumnIndex()

	var report CleanReport
	for _, col := range valueobject.RetainedColumns() {
		if _, ok := idx[col.Name]; !ok {
			return nil, report, fmt.Errorf("clean: %w", &model.MalformedInputError{
				Column: col.Name,
				Reason: "column missing from header",
			})
		}
	}

	statusCol, hasStatus := idx[valueobject.ColumnLoanStatus]
	flagCol, hasFlag := idx[valueobject.ColumnDefaultFlag]
	if !hasStatus && !hasFlag {
		return nil, report, fmt.Errorf("clean: need %q or %q column to derive the label",
			valueobject.ColumnLoanStatus, valueobject.ColumnDefaultFlag)
	}
	report.LabelFromFlag = !hasStatus

	keep := valueobject.CleanedHeader()
	for _, name := range table.Header {
		if !slices.Contains(keep, name) {
			report.DroppedColumns = append(report.DroppedColumns, name)
		}
	}

	loans := make([]model.LabeledLoan, 0, len(table.Rows))
	fields := make(map[string]string, len(keep))
	for i := range table.Rows {
		report.RowsRead++
		rowNum := i + 1

		for _, col := range valueobject.RetainedColumns() {
			fields[col.Name] = table.Cell(i, idx[col.Name])
		}

		record, err := model.ParseLoanRecord(fields)
		if err != nil {
			report.Dropped = append(report.Dropped, withRow(err, rowNum))
			continue
		}

		var label valueobject.Label
		if hasStatus {
			label = valueobject.LabelFromStatus(table.Cell(i, statusCol))
		} else {
			raw := table.Cell(i, flagCol)
			label, err = parseFlag(raw)
			if err != nil {
				report.Dropped = append(report.Dropped, &model.MalformedInputError{
					Row:    rowNum,
					Column: valueobject.ColumnDefaultFlag,
					Value:  raw,
					Reason: "default flag must be 0 or 1",
				})
				continue
			}
		}

		loans = append(loans, model.LabeledLoan{Record: record, Label: label})
		report.LabelCounts[label]++
	}
	report.RowsKept = len(loans)

	return loans, report, nil
}

// Rows renders cleaned records under CleanedHeader.
func (c *Cleaner) Rows(loans []model.LabeledLoan) [][]string {
	rows := make([][]string, len(loans))
	for i, l := range loans {
		rows[i] = append(l.Record.Fields(), strconv.Itoa(l.Label.Int()))
	}
	return rows
}

func parseFlag(raw string) (valueobject.Label, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || (f != 0 && f != 1) {
			return 0, fmt.Errorf("invalid default flag %q", raw)
		}
		n = int(f)
	}
	return valueobject.NewLabel(n)
}

func withRow(err error, row int) *model.MalformedInputError {
	var malformed *model.MalformedInputError
	if !errors.As(err, &malformed) {
		malformed = &model.MalformedInputError{Reason: err.Error()}
	}
	malformed.Row = row
	return malformed
}
