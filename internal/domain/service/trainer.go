package service

import (
	"context"
	"fmt"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// DefaultTestFraction is the held-out share of each class.
const DefaultTestFraction = 0.2

// TrainerConfig parameterises a Trainer.
type TrainerConfig struct {
	TestFraction float64
	Seed         uint64
}

// Trainer encodes, splits, fits and evaluates. It is the one training
// pipeline shared by every strategy and schema.
type Trainer struct {
	encoder   *Encoder
	estimator Estimator
	cfg       TrainerConfig
}

// NewTrainer creates a Trainer. Zero config fields take the defaults.
func NewTrainer(encoder *Encoder, estimator Estimator, cfg TrainerConfig) *Trainer {
	if cfg.TestFraction == 0 {
		cfg.TestFraction = DefaultTestFraction
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	return &Trainer{encoder: encoder, estimator: estimator, cfg: cfg}
}

// TrainingSummary records the partition sizes of a run.
type TrainingSummary struct {
	TrainRows int
	TestRows  int
}

// Train fits a model on loans and evaluates it on a stratified held-out
// partition. Fewer than two examples of either class is a
// *model.DegenerateLabelError.
func (t *Trainer) Train(ctx context.Context, loans []model.LabeledLoan, fingerprint string) (*model.TrainedModel, TrainingSummary, error) {
	X, y, err := t.encoder.EncodeDataset(loans)
	if err != nil {
		return nil, TrainingSummary{}, err
	}

	trainIdx, testIdx, err := StratifiedSplit(y, t.cfg.TestFraction, t.cfg.Seed)
	if err != nil {
		return nil, TrainingSummary{}, err
	}
	Xtr, ytr := selectRows(X, y, trainIdx)
	Xte, yte := selectRows(X, y, testIdx)
	summary := TrainingSummary{TrainRows: len(trainIdx), TestRows: len(testIdx)}

	clf, err := t.estimator.Fit(ctx, Xtr, ytr)
	if err != nil {
		return nil, summary, fmt.Errorf("fit: %w", err)
	}

	pred := make([]valueobject.Label, len(Xte))
	for i, x := range Xte {
		pred[i] = model.Classify(clf.PredictProba(x)).Class
	}

	report, err := model.NewEvaluationReport(yte, pred)
	if err != nil {
		return nil, summary, fmt.Errorf("evaluate: %w", err)
	}

	m, err := model.NewTrainedModel(t.encoder.Schema(), clf, report, len(loans), fingerprint)
	if err != nil {
		return nil, summary, err
	}
	return m, summary, nil
}
