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
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
)

const tracerName = "github.com/Mohana-teja/loan-default-dashboard/internal/application/usecase"

// TrainModel is the use case for fitting, evaluating and persisting a model.
type TrainModel struct {
	store     port.DatasetStore
	repo      port.ModelRepository
	publisher port.EventPublisher
	metrics   port.Metrics
	cleaner   *service.Cleaner
	trainer   *service.Trainer
	logger    *slog.Logger
}

// NewTrainModel creates a new TrainModel use case.
func NewTrainModel(
	store port.DatasetStore,
	repo port.ModelRepository,
	publisher port.EventPublisher,
	metrics port.Metrics,
	cleaner *service.Cleaner,
	trainer *service.Trainer,
	logger *slog.Logger,
) *TrainModel {
	return &TrainModel{
		store:     store,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		cleaner:   cleaner,
		trainer:   trainer,
		logger:    logger,
	}
}

// Execute trains on the dataset at req.DatasetPath. A failed event publish
// is logged; the saved model stands.
func (uc *TrainModel) Execute(ctx context.Context, req dto.TrainRequest) (dto.TrainResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "TrainModel")
	defer span.End()
	start := time.Now()

	fail := func(err error) (dto.TrainResponse, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.TrainResponse{}, err
	}

	fingerprint, err := uc.store.Fingerprint(ctx, req.DatasetPath)
	if err != nil {
		return fail(fmt.Errorf("failed to fingerprint dataset: %w", err))
	}

	loans, err := loadCleaned(ctx, uc.store, uc.cleaner, uc.logger, req.DatasetPath)
	if err != nil {
		return fail(err)
	}

	m, summary, err := uc.trainer.Train(ctx, loans, fingerprint)
	if err != nil {
		return fail(fmt.Errorf("failed to train model: %w", err))
	}
	span.SetAttributes(
		attribute.String("model.id", m.ID().String()),
		attribute.String("model.strategy", m.Strategy().String()),
		attribute.Int("dataset.rows", len(loans)),
	)

	if err := uc.repo.Save(ctx, m); err != nil {
		return fail(fmt.Errorf("failed to save model: %w", err))
	}

	if evts := m.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.Warn("failed to publish training events", "model_id", m.ID(), "error", err)
		}
	}

	elapsed := time.Since(start)
	uc.metrics.RecordTraining(ctx, m.Strategy().String(), elapsed)

	report := m.Evaluation().String()
	uc.logger.Info("model trained",
		"model_id", m.ID(),
		"strategy", m.Strategy().String(),
		"schema", m.Schema().String(),
		"train_rows", summary.TrainRows,
		"test_rows", summary.TestRows,
		"accuracy", m.Evaluation().Accuracy,
		"duration", elapsed,
	)

	return dto.TrainResponse{
		Model:   dto.ModelInfoFromModel(m),
		Summary: summary,
		Report:  report,
	}, nil
}
