package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// LoanRecord is one typed loan row. Currency amounts are decimals; the
// status text only exists on raw input and is not retained here.
type LoanRecord struct {
	AmountBorrowed   decimal.Decimal
	Installment      decimal.Decimal
	PrincipalBalance decimal.Decimal
	PrincipalPaid    decimal.Decimal
	InterestPaid     decimal.Decimal
	LateFeesPaid     decimal.Decimal
	Grade            valueobject.Grade
	BorrowerRate     float64
	Term             int
	DaysPastDue      int
}

// LabeledLoan pairs a record with its default flag.
type LabeledLoan struct {
	Record LoanRecord
	Label  valueobject.Label
}

// ParseLoanRecord builds a record from raw column values, parsing each
// retained column by its declared type. The first offending column is
// reported as a *MalformedInputError.
func ParseLoanRecord(fields map[string]string) (LoanRecord, error) {
	var r LoanRecord
	for _, col := range valueobject.RetainedColumns() {
		raw, ok := fields[col.Name]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			return LoanRecord{}, &MalformedInputError{Column: col.Name, Reason: "missing required value"}
		}
		if err := r.set(col, raw); err != nil {
			return LoanRecord{}, err
		}
	}
	return r, nil
}

func (r *LoanRecord) set(col valueobject.ColumnSpec, raw string) error {
	fail := func(reason string) error {
		return &MalformedInputError{Column: col.Name, Value: raw, Reason: reason}
	}

	switch col.Type {
	case valueobject.ColumnTypeDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fail("not a decimal amount")
		}
		*r.decimalField(col.Name) = d
	case valueobject.ColumnTypeInteger:
		n, err := parseInteger(raw)
		if err != nil {
			return fail("not an integer")
		}
		if col.Name == valueobject.ColumnDaysPastDue {
			if n < 0 {
				return fail("must be non-negative")
			}
			r.DaysPastDue = n
		} else {
			r.Term = n
		}
	case valueobject.ColumnTypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fail("not a finite number")
		}
		r.BorrowerRate = f
	case valueobject.ColumnTypeGrade:
		g, err := valueobject.NewGrade(raw)
		if err != nil {
			return fail("grade must be one of A..G")
		}
		r.Grade = g
	}
	return nil
}

func (r *LoanRecord) decimalField(column string) *decimal.Decimal {
	switch column {
	case valueobject.ColumnAmountBorrowed:
		return &r.AmountBorrowed
	case valueobject.ColumnInstallment:
		return &r.Installment
	case valueobject.ColumnPrincipalBalance:
		return &r.PrincipalBalance
	case valueobject.ColumnPrincipalPaid:
		return &r.PrincipalPaid
	case valueobject.ColumnInterestPaid:
		return &r.InterestPaid
	case valueobject.ColumnLateFeesPaid:
		return &r.LateFeesPaid
	}
	panic("loan record: unknown decimal column " + column)
}

// parseInteger accepts "36" and integral floats such as "36.0", which is
// how spreadsheet exports write integer columns that contain gaps.
func parseInteger(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

// Numeric returns the value of a retained column as float64. Grade is
// returned as its ordinal. ok is false for unknown columns.
func (r LoanRecord) Numeric(column string) (v float64, ok bool) {
	switch column {
	case valueobject.ColumnAmountBorrowed:
		return r.AmountBorrowed.InexactFloat64(), true
	case valueobject.ColumnTerm:
		return float64(r.Term), true
	case valueobject.ColumnBorrowerRate:
		return r.BorrowerRate, true
	case valueobject.ColumnInstallment:
		return r.Installment.InexactFloat64(), true
	case valueobject.ColumnGrade:
		return float64(r.Grade.Ordinal()), true
	case valueobject.ColumnPrincipalBalance:
		return r.PrincipalBalance.InexactFloat64(), true
	case valueobject.ColumnPrincipalPaid:
		return r.PrincipalPaid.InexactFloat64(), true
	case valueobject.ColumnInterestPaid:
		return r.InterestPaid.InexactFloat64(), true
	case valueobject.ColumnLateFeesPaid:
		return r.LateFeesPaid.InexactFloat64(), true
	case valueobject.ColumnDaysPastDue:
		return float64(r.DaysPastDue), true
	}
	return 0, false
}

// Fields renders the record in RetainedColumns order. Formatting is stable
// under ParseLoanRecord, so a formatted row parses back to the same text.
func (r LoanRecord) Fields() []string {
	return []string{
		r.AmountBorrowed.String(),
		strconv.Itoa(r.Term),
		strconv.FormatFloat(r.BorrowerRate, 'f', -1, 64),
		r.Installment.String(),
		r.Grade.String(),
		r.PrincipalBalance.String(),
		r.PrincipalPaid.String(),
		r.InterestPaid.String(),
		r.LateFeesPaid.String(),
		strconv.Itoa(r.DaysPastDue),
	}
}
