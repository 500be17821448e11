package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// LogisticConfig configures L2-regularised logistic regression.
type LogisticConfig struct {
	// C is the inverse regularisation strength.
	C             float64 `yaml:"c"`
	MaxIter       int     `yaml:"max_iter"`
	BalanceWeight bool    `yaml:"class_weight_balanced"`
}

// DefaultLogisticConfig matches the baseline model settings.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{C: 1, MaxIter: 1000, BalanceWeight: true}
}

// LogisticRegression is a fitted linear model on standardised features.
type LogisticRegression struct {
	Mean      []float64 `json:"mean"`
	Scale     []float64 `json:"scale"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

var _ model.Classifier = (*LogisticRegression)(nil)

type logisticEstimator struct {
	cfg LogisticConfig
}

// Fit minimises C * sum_i w_i * logloss_i + ||coef||^2 / 2 with L-BFGS.
// The intercept is not penalised.
func (e logisticEstimator) Fit(ctx context.Context, X [][]float64, y []valueobject.Label) (model.Classifier, error) {
	if err := checkDesign(X, y); err != nil {
		return nil, err
	}
	n, p := len(X), len(X[0])

	m := &LogisticRegression{Mean: make([]float64, p), Scale: make([]float64, p)}
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		m.Mean[j], m.Scale[j] = mean, std
	}

	Z := make([][]float64, n)
	for i, row := range X {
		Z[i] = m.standardise(row)
	}

	weights := sampleWeights(y, e.cfg.BalanceWeight)
	norm := 1 / float64(n)

	// Parameter layout: coef[0..p-1], intercept at p.
	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			loss := 0.5 * floats.Dot(w[:p], w[:p])
			for i, z := range Z {
				margin := floats.Dot(w[:p], z) + w[p]
				loss += e.cfg.C * weights[i] * logLoss(margin, y[i])
			}
			return loss * norm
		},
		Grad: func(grad, w []float64) {
			copy(grad[:p], w[:p])
			grad[p] = 0
			for i, z := range Z {
				margin := floats.Dot(w[:p], z) + w[p]
				r := e.cfg.C * weights[i] * (sigmoid(margin) - float64(y[i]))
				floats.AddScaled(grad[:p], r, z)
				grad[p] += r
			}
			floats.Scale(norm, grad)
		},
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	settings := &optimize.Settings{MajorIterations: e.cfg.MaxIter, GradientThreshold: 1e-8}
	result, err := optimize.Minimize(problem, make([]float64, p+1), settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("logistic regression: %w", err)
	}
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("logistic regression diverged: %v", err)
		}
	}

	m.Coef = append([]float64(nil), result.X[:p]...)
	m.Intercept = result.X[p]
	return m, nil
}

func (m *LogisticRegression) standardise(x []float64) []float64 {
	z := make([]float64, len(x))
	for j, v := range x {
		z[j] = (v - m.Mean[j]) / m.Scale[j]
	}
	return z
}

func (m *LogisticRegression) Strategy() valueobject.Strategy {
	return valueobject.StrategyLogisticRegression
}

func (m *LogisticRegression) NumFeatures() int { return len(m.Coef) }

func (m *LogisticRegression) PredictProba(x []float64) float64 {
	return sigmoid(floats.Dot(m.Coef, m.standardise(x)) + m.Intercept)
}

func (m *LogisticRegression) MarshalParams() ([]byte, error) { return json.Marshal(m) }

func (m *LogisticRegression) validate() error {
	p := len(m.Coef)
	if p == 0 || len(m.Mean) != p || len(m.Scale) != p {
		return fmt.Errorf("logistic regression params: inconsistent widths coef=%d mean=%d scale=%d",
			p, len(m.Mean), len(m.Scale))
	}
	for _, s := range m.Scale {
		if s == 0 {
			return fmt.Errorf("logistic regression params: zero scale")
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}

// logLoss is the negative log-likelihood of label y given a logit margin,
// computed without overflow.
func logLoss(margin float64, y valueobject.Label) float64 {
	if y == valueobject.LabelDefault {
		margin = -margin
	}
	// log(1 + exp(margin))
	if margin > 0 {
		return margin + math.Log1p(math.Exp(-margin))
	}
	return math.Log1p(math.Exp(margin))
}

func sampleWeights(y []valueobject.Label, balanced bool) []float64 {
	w := make([]float64, len(y))
	cw := [2]float64{1, 1}
	if balanced {
		cw = BalancedClassWeights(y)
	}
	for i, l := range y {
		w[i] = cw[l]
	}
	return w
}

func checkDesign(X [][]float64, y []valueobject.Label) error {
	if len(X) == 0 {
		return fmt.Errorf("no training examples")
	}
	if len(X) != len(y) {
		return fmt.Errorf("design matrix has %d rows but %d labels", len(X), len(y))
	}
	p := len(X[0])
	if p == 0 {
		return fmt.Errorf("no features")
	}
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
		}
	}
	return CheckLabels(y)
}
