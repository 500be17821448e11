package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// Estimator fits a classifier on a design matrix.
type Estimator interface {
	Fit(ctx context.Context, X [][]float64, y []valueobject.Label) (model.Classifier, error)
}

// EstimatorConfig selects a strategy and carries hyperparameters for all
// of them; only the selected block is used.
type EstimatorConfig struct {
	Strategy valueobject.Strategy
	Logistic LogisticConfig
	Forest   ForestConfig
	Boosting BoostingConfig
}

// DefaultEstimatorConfig returns defaults for every strategy with
// logistic regression selected.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		Strategy: valueobject.StrategyLogisticRegression,
		Logistic: DefaultLogisticConfig(),
		Forest:   DefaultForestConfig(),
		Boosting: DefaultBoostingConfig(),
	}
}

// NewEstimator returns the estimator for cfg.Strategy.
func NewEstimator(cfg EstimatorConfig) (Estimator, error) {
	switch cfg.Strategy {
	case valueobject.StrategyLogisticRegression:
		if cfg.Logistic.C <= 0 || cfg.Logistic.MaxIter <= 0 {
			return nil, fmt.Errorf("logistic regression: C and max_iter must be positive")
		}
		return logisticEstimator{cfg: cfg.Logistic}, nil
	case valueobject.StrategyRandomForest:
		return forestEstimator{cfg: cfg.Forest}, nil
	case valueobject.StrategyGradientBoosting:
		return boostingEstimator{cfg: cfg.Boosting}, nil
	default:
		return nil, fmt.Errorf("unsupported strategy %q", cfg.Strategy)
	}
}

// RestoreClassifier decodes parameters written by MarshalParams.
func RestoreClassifier(strategy valueobject.Strategy, params []byte) (model.Classifier, error) {
	type validator interface {
		model.Classifier
		validate() error
	}

	var c validator
	switch strategy {
	case valueobject.StrategyLogisticRegression:
		c = &LogisticRegression{}
	case valueobject.StrategyRandomForest:
		c = &RandomForest{}
	case valueobject.StrategyGradientBoosting:
		c = &GradientBoosting{}
	default:
		return nil, fmt.Errorf("unsupported strategy %q", strategy)
	}

	if err := json.Unmarshal(params, c); err != nil {
		return nil, fmt.Errorf("decode %s params: %w", strategy, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}
