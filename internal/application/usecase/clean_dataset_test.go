package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/application/usecase"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/testutil"
)

func TestCleanDataset_Execute(t *testing.T) {
	store := newMockDatasetStore()
	store.tables["raw.csv"] = model.RawTable{
		Header: []string{
			"amount_borrowed", "term", "borrower_rate", "installment", "grade", "listing_title",
			"principal_balance", "principal_paid", "interest_paid", "late_fees_paid", "days_past_due",
			"loan_status_description",
		},
		Rows: [][]string{
			{"10000", "36", "15", "346", "C", "Car", "5000", "2000", "500", "0", "0", "CHARGED OFF"},
			{"8000", "60", "9.5", "170", "B", "Home", "8000", "0", "40", "0", "0", "CURRENT"},
			{"", "60", "9.5", "170", "B", "Home", "8000", "0", "40", "0", "0", "CURRENT"},
		},
	}
	var logs bytes.Buffer
	uc := usecase.NewCleanDataset(store, service.NewCleaner(), testLogger(&logs))

	resp, err := uc.Execute(context.Background(), dto.CleanRequest{InputPath: "raw.csv", OutputPath: "clean.csv"})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Report.RowsRead)
	assert.Equal(t, 2, resp.Report.RowsKept)
	assert.Contains(t, logs.String(), "dropping malformed row")

	out := store.written["clean.csv"]
	assert.Equal(t, valueobject.CleanedHeader(), out.Header)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "1", out.Rows[0][10])
	assert.Equal(t, "0", out.Rows[1][10])
}

func TestCleanDataset_ReadError(t *testing.T) {
	store := newMockDatasetStore()
	uc := usecase.NewCleanDataset(store, service.NewCleaner(), testLogger(nil))

	_, err := uc.Execute(context.Background(), dto.CleanRequest{InputPath: "missing.csv", OutputPath: "out.csv"})
	testutil.AssertErrorContains(t, err, "failed to read raw dataset")
	assert.Empty(t, store.written)
}
