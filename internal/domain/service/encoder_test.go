package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

func TestEncoder_CanonicalLayout(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)

	v, err := enc.Encode(exampleRecord())
	require.NoError(t, err)

	assert.Equal(t, valueobject.SchemaLoanOrdinalV1, v.Schema)
	assert.Equal(t, []float64{10000, 36, 15, 0, 2, 5000, 2000, 500, 0, 0}, v.Values)
}

func TestEncoder_Deterministic(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)

	for _, l := range syntheticLoans(20, 5, 3) {
		a, err := enc.Encode(l.Record)
		require.NoError(t, err)
		b, err := enc.Encode(l.Record)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestEncoder_GradeOrdinalTotal(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)

	gradeIdx := 4
	for i, g := range valueobject.Grades() {
		r := exampleRecord()
		r.Grade = g
		v, err := enc.Encode(r)
		require.NoError(t, err)
		assert.Equal(t, float64(i), v.Values[gradeIdx], "grade %s", g)
	}
}

func TestEncoder_OneHotBaseline(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaBaselineOneHotV1)
	require.NoError(t, err)

	v, err := enc.Encode(exampleRecord())
	require.NoError(t, err)
	assert.Equal(t, []float64{10000, 36, 15, 0, 1, 0, 0, 0, 0}, v.Values)

	r := exampleRecord()
	r.Grade = valueobject.GradeA
	v, err = enc.Encode(r)
	require.NoError(t, err)
	assert.Equal(t, []float64{10000, 36, 15, 0, 0, 0, 0, 0, 0}, v.Values)
}

func TestEncoder_OutOfRangeAccepted(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)

	r := exampleRecord()
	r.BorrowerRate = 250
	r.Term = 7
	v, err := enc.Encode(r)
	require.NoError(t, err)
	assert.Equal(t, 250.0, v.Values[2])
}

func TestEncoder_EncodeFieldsTypeMismatch(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)

	fields := map[string]string{
		"amount_borrowed": "10000", "term": "36", "borrower_rate": "high", "installment": "0",
		"grade": "C", "principal_balance": "5000", "principal_paid": "2000", "interest_paid": "500",
		"late_fees_paid": "0", "days_past_due": "0",
	}
	_, err = enc.EncodeFields(fields)

	var malformed *model.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "borrower_rate", malformed.Column)

	fields["borrower_rate"] = "15"
	v, err := enc.EncodeFields(fields)
	require.NoError(t, err)
	assert.Len(t, v.Values, 10)
}

func TestEncoder_MissingGrade(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)

	r := exampleRecord()
	r.Grade = valueobject.Grade{}
	_, err = enc.Encode(r)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestEncoder_EncodeDataset(t *testing.T) {
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)

	loans := syntheticLoans(10, 4, 9)
	X, y, err := enc.EncodeDataset(loans)
	require.NoError(t, err)
	require.Len(t, X, 10)
	assert.Len(t, X[0], 10)
	assert.Equal(t, [2]int{6, 4}, service.LabelCounts(y))
}

func TestNewEncoder_RequiresSchema(t *testing.T) {
	_, err := service.NewEncoder(valueobject.FeatureSchema{})
	assert.Error(t, err)
}
