package dto

import (
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// PredictRequest is the loan application form. Currency fields accept
// JSON numbers or strings. Every field is required; nil means the field was
// left out of the request.
type PredictRequest struct {
	AmountBorrowed   *decimal.Decimal `json:"amount_borrowed"`
	Installment      *decimal.Decimal `json:"installment"`
	PrincipalBalance *decimal.Decimal `json:"principal_balance"`
	PrincipalPaid    *decimal.Decimal `json:"principal_paid"`
	InterestPaid     *decimal.Decimal `json:"interest_paid"`
	LateFeesPaid     *decimal.Decimal `json:"late_fees_paid"`
	BorrowerRate     *float64         `json:"borrower_rate"`
	Term             *int             `json:"term"`
	DaysPastDue      *int             `json:"days_past_due"`
	Grade            string           `json:"grade"`
}

type decimalRange struct {
	get      func(r PredictRequest) *decimal.Decimal
	field    string
	min, max decimal.Decimal
}

var currencyRanges = []decimalRange{
	{field: valueobject.ColumnAmountBorrowed, min: decimal.NewFromInt(500), max: decimal.NewFromInt(50000),
		get: func(r PredictRequest) *decimal.Decimal { return r.AmountBorrowed }},
	{field: valueobject.ColumnInstallment, min: decimal.Zero, max: decimal.NewFromInt(5000),
		get: func(r PredictRequest) *decimal.Decimal { return r.Installment }},
	{field: valueobject.ColumnPrincipalBalance, min: decimal.Zero, max: decimal.NewFromInt(50000),
		get: func(r PredictRequest) *decimal.Decimal { return r.PrincipalBalance }},
	{field: valueobject.ColumnPrincipalPaid, min: decimal.Zero, max: decimal.NewFromInt(50000),
		get: func(r PredictRequest) *decimal.Decimal { return r.PrincipalPaid }},
	{field: valueobject.ColumnInterestPaid, min: decimal.Zero, max: decimal.NewFromInt(20000),
		get: func(r PredictRequest) *decimal.Decimal { return r.InterestPaid }},
	{field: valueobject.ColumnLateFeesPaid, min: decimal.Zero, max: decimal.NewFromInt(5000),
		get: func(r PredictRequest) *decimal.Decimal { return r.LateFeesPaid }},
}

// AllowedTerms are the loan terms, in months, the form offers.
var AllowedTerms = []int{12, 24, 36, 60}

const (
	minBorrowerRate = 1.0
	maxBorrowerRate = 50.0
	maxDaysPastDue  = 1000
)

// MissingValueReason is the MalformedInputError reason for an absent field.
const MissingValueReason = "missing required value"

// missingField returns the first absent field in cleaned-column order.
func (r PredictRequest) missingField() (string, bool) {
	present := map[string]bool{
		valueobject.ColumnAmountBorrowed:   r.AmountBorrowed != nil,
		valueobject.ColumnTerm:             r.Term != nil,
		valueobject.ColumnBorrowerRate:     r.BorrowerRate != nil,
		valueobject.ColumnInstallment:      r.Installment != nil,
		valueobject.ColumnGrade:            r.Grade != "",
		valueobject.ColumnPrincipalBalance: r.PrincipalBalance != nil,
		valueobject.ColumnPrincipalPaid:    r.PrincipalPaid != nil,
		valueobject.ColumnInterestPaid:     r.InterestPaid != nil,
		valueobject.ColumnLateFeesPaid:     r.LateFeesPaid != nil,
		valueobject.ColumnDaysPastDue:      r.DaysPastDue != nil,
	}
	for _, col := range valueobject.RetainedColumns() {
		if !present[col.Name] {
			return col.Name, true
		}
	}
	return "", false
}

// ToLoanRecord enforces presence and the form ranges and returns the typed
// record. A missing field or an unknown grade is a *model.MalformedInputError;
// range violations are *model.InputRangeError.
func (r PredictRequest) ToLoanRecord() (model.LoanRecord, error) {
	if field, missing := r.missingField(); missing {
		return model.LoanRecord{}, &model.MalformedInputError{Column: field, Reason: MissingValueReason}
	}

	for _, rng := range currencyRanges {
		v := *rng.get(r)
		if v.LessThan(rng.min) || v.GreaterThan(rng.max) {
			return model.LoanRecord{}, &model.InputRangeError{
				Field: rng.field, Value: v.String(), Min: rng.min.String(), Max: rng.max.String(),
			}
		}
	}

	term, rate, dpd := *r.Term, *r.BorrowerRate, *r.DaysPastDue
	if !slices.Contains(AllowedTerms, term) {
		allowed := make([]string, len(AllowedTerms))
		for i, t := range AllowedTerms {
			allowed[i] = strconv.Itoa(t)
		}
		return model.LoanRecord{}, &model.InputRangeError{
			Field: valueobject.ColumnTerm, Value: strconv.Itoa(term), Allowed: allowed,
		}
	}

	if rate < minBorrowerRate || rate > maxBorrowerRate {
		return model.LoanRecord{}, &model.InputRangeError{
			Field: valueobject.ColumnBorrowerRate,
			Value: strconv.FormatFloat(rate, 'f', -1, 64),
			Min:   strconv.FormatFloat(minBorrowerRate, 'f', -1, 64),
			Max:   strconv.FormatFloat(maxBorrowerRate, 'f', -1, 64),
		}
	}
	if dpd < 0 || dpd > maxDaysPastDue {
		return model.LoanRecord{}, &model.InputRangeError{
			Field: valueobject.ColumnDaysPastDue, Value: strconv.Itoa(dpd),
			Min: "0", Max: strconv.Itoa(maxDaysPastDue),
		}
	}

	grade, err := valueobject.NewGrade(r.Grade)
	if err != nil {
		return model.LoanRecord{}, &model.MalformedInputError{
			Column: valueobject.ColumnGrade, Value: r.Grade, Reason: "grade must be one of A..G",
		}
	}

	return model.LoanRecord{
		AmountBorrowed:   *r.AmountBorrowed,
		Term:             term,
		BorrowerRate:     rate,
		Installment:      *r.Installment,
		Grade:            grade,
		PrincipalBalance: *r.PrincipalBalance,
		PrincipalPaid:    *r.PrincipalPaid,
		InterestPaid:     *r.InterestPaid,
		LateFeesPaid:     *r.LateFeesPaid,
		DaysPastDue:      dpd,
	}, nil
}

// PredictionResponse is the output DTO of a prediction.
type PredictionResponse struct {
	Schema      string    `json:"schema"`
	Strategy    string    `json:"strategy"`
	Label       string    `json:"label"`
	Features    []float64 `json:"features"`
	Probability float64   `json:"probability"`
	Class       int       `json:"class"`
	ModelID     uuid.UUID `json:"model_id"`
}

// ModelInfoResponse describes the serving model.
type ModelInfoResponse struct {
	TrainedAt   time.Time              `json:"trained_at"`
	Schema      string                 `json:"schema"`
	Strategy    string                 `json:"strategy"`
	Fingerprint string                 `json:"dataset_fingerprint,omitempty"`
	Columns     []string               `json:"columns"`
	Evaluation  model.EvaluationReport `json:"evaluation"`
	DatasetRows int                    `json:"dataset_rows"`
	ID          uuid.UUID              `json:"id"`
}

// ModelInfoFromModel maps the aggregate to its info DTO.
func ModelInfoFromModel(m *model.TrainedModel) ModelInfoResponse {
	return ModelInfoResponse{
		ID:          m.ID(),
		Strategy:    m.Strategy().String(),
		Schema:      m.Schema().String(),
		Columns:     m.Schema().Columns(),
		Evaluation:  m.Evaluation(),
		TrainedAt:   m.TrainedAt(),
		DatasetRows: m.DatasetRows(),
		Fingerprint: m.Fingerprint(),
	}
}
