package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/application/usecase"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/event"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/events"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/testutil"
)

type harness struct {
	store     *mockDatasetStore
	repo      *mockModelRepository
	publisher *mockEventPublisher
	metrics   *mockMetrics
	encoder   *service.Encoder
}

func newHarness(t *testing.T, schema valueobject.FeatureSchema) *harness {
	t.Helper()
	enc, err := service.NewEncoder(schema)
	require.NoError(t, err)

	h := &harness{
		store:     newMockDatasetStore(),
		repo:      &mockModelRepository{},
		publisher: &mockEventPublisher{},
		metrics:   newMockMetrics(),
		encoder:   enc,
	}
	h.store.tables["clean.csv"] = cleanedTable(200, 50)
	return h
}

func (h *harness) train(t *testing.T, strategy valueobject.Strategy) dto.TrainResponse {
	t.Helper()
	cfg := service.DefaultEstimatorConfig()
	cfg.Strategy = strategy
	cfg.Forest.NEstimators = 20
	cfg.Boosting.NEstimators = 20
	est, err := service.NewEstimator(cfg)
	require.NoError(t, err)

	uc := usecase.NewTrainModel(h.store, h.repo, h.publisher, h.metrics, service.NewCleaner(),
		service.NewTrainer(h.encoder, est, service.TrainerConfig{}), testLogger(nil))
	resp, err := uc.Execute(context.Background(), dto.TrainRequest{DatasetPath: "clean.csv"})
	require.NoError(t, err)
	return resp
}

func (h *harness) predictor() *usecase.PredictDefault {
	return usecase.NewPredictDefault(usecase.NewLazyModelProvider(h.repo, uuid.Nil), h.publisher, h.metrics, h.encoder, testLogger(nil))
}

func ptr[T any](v T) *T { return &v }

func exampleRequest() dto.PredictRequest {
	return dto.PredictRequest{
		AmountBorrowed:   ptr(decimal.NewFromInt(10000)),
		Term:             ptr(36),
		BorrowerRate:     ptr(15.0),
		Installment:      ptr(decimal.NewFromInt(332)),
		Grade:            "C",
		PrincipalBalance: ptr(decimal.NewFromInt(5000)),
		PrincipalPaid:    ptr(decimal.NewFromInt(2000)),
		InterestPaid:     ptr(decimal.NewFromInt(500)),
		LateFeesPaid:     ptr(decimal.Zero),
		DaysPastDue:      ptr(0),
	}
}

func TestTrainModel_Execute(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)

	resp := h.train(t, valueobject.StrategyRandomForest)

	require.Len(t, h.repo.models, 1)
	assert.Equal(t, h.repo.models[0].ID(), resp.Model.ID)
	assert.Equal(t, "fp-test", resp.Model.Fingerprint)
	assert.Equal(t, 200, resp.Model.DatasetRows)
	assert.Equal(t, 160, resp.Summary.TrainRows)
	assert.Contains(t, resp.Report, "Confusion Matrix")
	assert.Equal(t, 1, h.metrics.trainings["random_forest"])

	require.Len(t, h.publisher.published, 1)
	assert.Equal(t, event.EventTypeModelTrained, h.publisher.published[0].EventType())
}

func TestTrainModel_PublishFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	h.publisher.publishFunc = func(context.Context, ...events.DomainEvent) error {
		return fmt.Errorf("broker unavailable")
	}

	h.train(t, valueobject.StrategyLogisticRegression)
	assert.Len(t, h.repo.models, 1)
}

func TestTrainModel_DegenerateDataset(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	h.store.tables["clean.csv"] = cleanedTable(30, 0)

	est, err := service.NewEstimator(service.DefaultEstimatorConfig())
	require.NoError(t, err)
	uc := usecase.NewTrainModel(h.store, h.repo, h.publisher, h.metrics, service.NewCleaner(),
		service.NewTrainer(h.encoder, est, service.TrainerConfig{}), testLogger(nil))

	_, err = uc.Execute(context.Background(), dto.TrainRequest{DatasetPath: "clean.csv"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDegenerateLabel)
	assert.Empty(t, h.repo.models)
}

func TestPredictDefault_EndToEnd(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	h.train(t, valueobject.StrategyLogisticRegression)
	h.publisher.published = nil

	resp, err := h.predictor().Execute(context.Background(), exampleRequest())
	require.NoError(t, err)

	assert.Equal(t, []float64{10000, 36, 15, 0, 2, 5000, 2000, 500, 0, 0}, resp.Features)
	assert.Contains(t, []int{0, 1}, resp.Class)
	testutil.AssertProbability(t, resp.Probability)
	assert.Equal(t, "loan-ordinal@v1", resp.Schema)
	assert.Equal(t, 1, h.metrics.predictions[resp.Class])
}

func TestPredictDefault_HighRiskEvent(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	h.train(t, valueobject.StrategyGradientBoosting)
	h.publisher.published = nil

	req := exampleRequest()
	req.Grade = "G"
	req.BorrowerRate = ptr(26.0)
	req.DaysPastDue = ptr(150)

	resp, err := h.predictor().Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Class)

	require.Len(t, h.publisher.published, 1)
	assert.Equal(t, event.EventTypeHighRiskPredicted, h.publisher.published[0].EventType())
	assert.Equal(t, resp.ModelID, h.publisher.published[0].AggregateID())
}

func TestPredictDefault_InputRange(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	uc := h.predictor()

	tests := []struct {
		name   string
		mutate func(r *dto.PredictRequest)
		field  string
	}{
		{"amount too small", func(r *dto.PredictRequest) { r.AmountBorrowed = ptr(decimal.NewFromInt(499)) }, "amount_borrowed"},
		{"term not offered", func(r *dto.PredictRequest) { r.Term = ptr(48) }, "term"},
		{"rate too high", func(r *dto.PredictRequest) { r.BorrowerRate = ptr(50.5) }, "borrower_rate"},
		{"negative late fees", func(r *dto.PredictRequest) { r.LateFeesPaid = ptr(decimal.NewFromInt(-1)) }, "late_fees_paid"},
		{"days past due", func(r *dto.PredictRequest) { r.DaysPastDue = ptr(1001) }, "days_past_due"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := exampleRequest()
			tt.mutate(&req)

			_, err := uc.Execute(context.Background(), req)
			var rangeErr *model.InputRangeError
			require.True(t, errors.As(err, &rangeErr), "got %v", err)
			assert.Equal(t, tt.field, rangeErr.Field)
		})
	}

	// Validation happens before the model is needed.
	assert.Zero(t, h.repo.loadCalls)
}

func TestPredictDefault_MissingField(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	h.train(t, valueobject.StrategyLogisticRegression)
	h.repo.loadCalls = 0

	tests := []struct {
		name   string
		mutate func(r *dto.PredictRequest)
		field  string
	}{
		{"installment", func(r *dto.PredictRequest) { r.Installment = nil }, "installment"},
		{"late fees", func(r *dto.PredictRequest) { r.LateFeesPaid = nil }, "late_fees_paid"},
		{"days past due", func(r *dto.PredictRequest) { r.DaysPastDue = nil }, "days_past_due"},
		{"grade", func(r *dto.PredictRequest) { r.Grade = "" }, "grade"},
		{"first in column order", func(r *dto.PredictRequest) {
			r.InterestPaid = nil
			r.Term = nil
		}, "term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := exampleRequest()
			tt.mutate(&req)

			_, err := h.predictor().Execute(context.Background(), req)
			require.ErrorIs(t, err, model.ErrMalformedInput)
			var malformed *model.MalformedInputError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.field, malformed.Column)
			assert.Equal(t, dto.MissingValueReason, malformed.Reason)
		})
	}

	assert.Zero(t, h.repo.loadCalls)
}

func TestPredictDefault_InvalidGrade(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	req := exampleRequest()
	req.Grade = "c"

	_, err := h.predictor().Execute(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestPredictDefault_SchemaMismatch(t *testing.T) {
	h := newHarness(t, valueobject.SchemaBaselineOneHotV1)
	h.train(t, valueobject.StrategyLogisticRegression)

	canonical, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)
	uc := usecase.NewPredictDefault(usecase.NewLazyModelProvider(h.repo, uuid.Nil), h.publisher, h.metrics, canonical, testLogger(nil))

	_, err = uc.Execute(context.Background(), exampleRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)

	_, err = uc.PredictVector(context.Background(), model.NewFeatureVector(valueobject.SchemaBaselineOneHotV1, make([]float64, 8)))
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}

func TestPredictDefault_NoModel(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)

	_, err := h.predictor().Execute(context.Background(), exampleRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrArtifactLoad)
	assert.ErrorIs(t, err, model.ErrModelNotFound)
}

func TestLazyModelProvider_LoadsOnce(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	h.train(t, valueobject.StrategyLogisticRegression)
	provider := usecase.NewLazyModelProvider(h.repo, h.repo.models[0].ID())
	assert.False(t, provider.Loaded())

	done := make(chan *model.TrainedModel, 8)
	for i := 0; i < 8; i++ {
		go func() {
			m, err := provider.Model(context.Background())
			assert.NoError(t, err)
			done <- m
		}()
	}
	first := <-done
	for i := 1; i < 8; i++ {
		assert.Same(t, first, <-done)
	}

	assert.True(t, provider.Loaded())
	assert.Equal(t, 1, h.repo.loadCalls)
}

func TestLazyModelProvider_RemembersFailure(t *testing.T) {
	repo := &mockModelRepository{}
	provider := usecase.NewLazyModelProvider(repo, uuid.Nil)

	_, err := provider.Model(context.Background())
	require.Error(t, err)
	_, err = provider.Model(context.Background())
	require.Error(t, err)

	var loadErr *model.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "latest", loadErr.Source)
	assert.Equal(t, 1, repo.loadCalls)
}

func TestLazyModelProvider_RetriesAfterCancelledLoad(t *testing.T) {
	h := newHarness(t, valueobject.SchemaLoanOrdinalV1)
	h.train(t, valueobject.StrategyLogisticRegression)
	h.repo.loadCalls = 0
	h.repo.latestFunc = func(ctx context.Context) (*model.TrainedModel, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return h.repo.models[len(h.repo.models)-1], nil
	}
	provider := usecase.NewLazyModelProvider(h.repo, uuid.Nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := provider.Model(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, provider.Loaded())

	m, err := provider.Model(context.Background())
	require.NoError(t, err)
	assert.Same(t, h.repo.models[0], m)
	assert.True(t, provider.Loaded())
	assert.Equal(t, 2, h.repo.loadCalls)
}
