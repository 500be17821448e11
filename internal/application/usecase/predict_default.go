package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/event"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// PredictDefault is the use case for scoring one loan application.
type PredictDefault struct {
	provider  port.ModelProvider
	publisher port.EventPublisher
	metrics   port.Metrics
	encoder   *service.Encoder
	logger    *slog.Logger
}

// NewPredictDefault creates a new PredictDefault use case.
func NewPredictDefault(
	provider port.ModelProvider,
	publisher port.EventPublisher,
	metrics port.Metrics,
	encoder *service.Encoder,
	logger *slog.Logger,
) *PredictDefault {
	return &PredictDefault{
		provider:  provider,
		publisher: publisher,
		metrics:   metrics,
		encoder:   encoder,
		logger:    logger,
	}
}

// Execute validates the form ranges, encodes the record and predicts.
// A default prediction raises a HighRiskPredicted event.
func (uc *PredictDefault) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "PredictDefault")
	defer span.End()

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.PredictionResponse{}, err
	}
	span.SetAttributes(attribute.Int("prediction.class", resp.Class))
	return resp, nil
}

func (uc *PredictDefault) execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	start := time.Now()

	record, err := req.ToLoanRecord()
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	vector, err := uc.encoder.Encode(record)
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	m, err := uc.provider.Model(ctx)
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	pred, err := m.Predict(vector)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to predict: %w", err)
	}
	uc.metrics.RecordPrediction(ctx, pred.Class.Int(), time.Since(start))

	if pred.Class == valueobject.LabelDefault {
		uc.publishHighRisk(ctx, m, record, pred)
	}

	return dto.PredictionResponse{
		ModelID:     m.ID(),
		Strategy:    m.Strategy().String(),
		Schema:      m.Schema().String(),
		Features:    vector.Values,
		Class:       pred.Class.Int(),
		Label:       pred.Class.String(),
		Probability: pred.Probability,
	}, nil
}

// PredictVector scores an already encoded vector against the serving model.
func (uc *PredictDefault) PredictVector(ctx context.Context, v model.FeatureVector) (model.Prediction, error) {
	m, err := uc.provider.Model(ctx)
	if err != nil {
		return model.Prediction{}, err
	}
	return m.Predict(v)
}

func (uc *PredictDefault) publishHighRisk(ctx context.Context, m *model.TrainedModel, r model.LoanRecord, p model.Prediction) {
	evt, err := event.NewHighRiskPredicted(event.HighRiskPredicted{
		ModelID:     m.ID(),
		Probability: p.Probability,
		Grade:       r.Grade.String(),
		Amount:      r.AmountBorrowed.String(),
		Term:        r.Term,
		PredictedAt: time.Now().UTC(),
	})
	if err == nil {
		err = uc.publisher.Publish(ctx, evt)
	}
	if err != nil {
		uc.logger.Warn("failed to publish high risk event", "model_id", m.ID(), "error", err)
	}
}
