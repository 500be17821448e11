package valueobject

// Column names of the raw and cleaned loan datasets.
const (
	ColumnAmountBorrowed   = "amount_borrowed"
	ColumnTerm             = "term"
	ColumnBorrowerRate     = "borrower_rate"
	ColumnInstallment      = "installment"
	ColumnGrade            = "grade"
	ColumnPrincipalBalance = "principal_balance"
	ColumnPrincipalPaid    = "principal_paid"
	ColumnInterestPaid     = "interest_paid"
	ColumnLateFeesPaid     = "late_fees_paid"
	ColumnDaysPastDue      = "days_past_due"
	ColumnDefaultFlag      = "default_flag"
	ColumnLoanStatus       = "loan_status_description"
)

// ColumnType is the declared type of a retained column.
type ColumnType int

const (
	ColumnTypeDecimal ColumnType = iota + 1
	ColumnTypeInteger
	ColumnTypeFloat
	ColumnTypeGrade
	ColumnTypeLabel
)

// ColumnSpec declares one column of the cleaned dataset.
type ColumnSpec struct {
	Name string
	Type ColumnType
}

var retainedColumns = []ColumnSpec{
	{Name: ColumnAmountBorrowed, Type: ColumnTypeDecimal},
	{Name: ColumnTerm, Type: ColumnTypeInteger},
	{Name: ColumnBorrowerRate, Type: ColumnTypeFloat},
	{Name: ColumnInstallment, Type: ColumnTypeDecimal},
	{Name: ColumnGrade, Type: ColumnTypeGrade},
	{Name: ColumnPrincipalBalance, Type: ColumnTypeDecimal},
	{Name: ColumnPrincipalPaid, Type: ColumnTypeDecimal},
	{Name: ColumnInterestPaid, Type: ColumnTypeDecimal},
	{Name: ColumnLateFeesPaid, Type: ColumnTypeDecimal},
	{Name: ColumnDaysPastDue, Type: ColumnTypeInteger},
}

// RetainedColumns returns the typed feature columns kept by cleaning, in
// canonical order. The label column is not included.
func RetainedColumns() []ColumnSpec {
	out := make([]ColumnSpec, len(retainedColumns))
	copy(out, retainedColumns)
	return out
}

// CleanedHeader is the exact header of the cleaned dataset file.
func CleanedHeader() []string {
	header := make([]string, 0, len(retainedColumns)+1)
	for _, c := range retainedColumns {
		header = append(header, c.Name)
	}
	return append(header, ColumnDefaultFlag)
}
