package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// BoostingConfig configures second-order gradient boosted trees with
// logistic loss.
type BoostingConfig struct {
	NEstimators    int     `yaml:"n_estimators"`
	MaxDepth       int     `yaml:"max_depth"`
	LearningRate   float64 `yaml:"learning_rate"`
	Lambda         float64 `yaml:"lambda"`
	Gamma          float64 `yaml:"gamma"`
	MinChildWeight float64 `yaml:"min_child_weight"`
	// ScalePosWeight multiplies positive-class gradients; 0 means
	// negatives/positives from the training labels.
	ScalePosWeight float64 `yaml:"scale_pos_weight"`
}

// DefaultBoostingConfig matches the xgboost script settings.
func DefaultBoostingConfig() BoostingConfig {
	return BoostingConfig{
		NEstimators:    100,
		MaxDepth:       6,
		LearningRate:   0.3,
		Lambda:         1,
		MinChildWeight: 1,
	}
}

// GradientBoosting is an additive ensemble of regression trees over the
// log-odds margin. Leaf values already include the learning rate.
type GradientBoosting struct {
	Trees      []tree  `json:"trees"`
	BaseMargin float64 `json:"base_margin"`
	Width      int     `json:"width"`
}

var _ model.Classifier = (*GradientBoosting)(nil)

type boostingEstimator struct {
	cfg BoostingConfig
}

func (e boostingEstimator) Fit(ctx context.Context, X [][]float64, y []valueobject.Label) (model.Classifier, error) {
	if err := checkDesign(X, y); err != nil {
		return nil, err
	}
	if e.cfg.NEstimators <= 0 || e.cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("gradient boosting: n_estimators and max_depth must be positive")
	}

	n, p := len(X), len(X[0])
	counts := LabelCounts(y)
	spw := e.cfg.ScalePosWeight
	if spw <= 0 {
		spw = float64(counts[0]) / float64(counts[1])
	}

	weights := make([]float64, n)
	var wPos, wAll float64
	for i, l := range y {
		weights[i] = 1
		if l == valueobject.LabelDefault {
			weights[i] = spw
			wPos += spw
		}
		wAll += weights[i]
	}

	m := &GradientBoosting{Width: p, BaseMargin: logit(wPos / wAll)}
	margin := make([]float64, n)
	for i := range margin {
		margin[i] = m.BaseMargin
	}

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	sorted := presort(X, all)
	grad := make([]float64, n)
	hess := make([]float64, n)
	b := &hessianBuilder{
		X:       X,
		grad:    grad,
		hess:    hess,
		cfg:     e.cfg,
		goLeft:  make([]bool, n),
		scratch: make([]int, 0, n),
	}

	for round := 0; round < e.cfg.NEstimators; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("gradient boosting: %w", err)
		}

		for i := range margin {
			prob := sigmoid(margin[i])
			grad[i] = weights[i] * (prob - float64(y[i]))
			hess[i] = weights[i] * math.Max(prob*(1-prob), 1e-16)
		}

		// The builder partitions its column views in place, so each round
		// works on a fresh copy of the presorted order.
		cols := make(columns, p)
		for j := range cols {
			cols[j] = append([]int(nil), sorted[j]...)
		}
		b.nodes = nil
		b.grow(cols, 0)
		t := b.nodes

		for i, x := range X {
			margin[i] += t.leaf(x)
		}
		m.Trees = append(m.Trees, t)
	}

	return m, nil
}

func (m *GradientBoosting) Strategy() valueobject.Strategy { return valueobject.StrategyGradientBoosting }
func (m *GradientBoosting) NumFeatures() int               { return m.Width }
func (m *GradientBoosting) MarshalParams() ([]byte, error) { return json.Marshal(m) }

func (m *GradientBoosting) PredictProba(x []float64) float64 {
	margin := m.BaseMargin
	for _, t := range m.Trees {
		margin += t.leaf(x)
	}
	return sigmoid(margin)
}

func (m *GradientBoosting) validate() error {
	if m.Width <= 0 || len(m.Trees) == 0 {
		return fmt.Errorf("gradient boosting params: empty ensemble")
	}
	for i, t := range m.Trees {
		if !t.valid(m.Width) {
			return fmt.Errorf("gradient boosting params: tree %d is malformed", i)
		}
	}
	return nil
}

func logit(p float64) float64 {
	p = math.Min(1-1e-7, math.Max(1e-7, p))
	return math.Log(p / (1 - p))
}

// hessianBuilder grows one regression tree using gradient and hessian
// sums, with leaf weight -G/(H+lambda) scaled by the learning rate.
type hessianBuilder struct {
	X       [][]float64
	grad    []float64
	hess    []float64
	goLeft  []bool
	scratch []int
	nodes   tree
	cfg     BoostingConfig
}

func (b *hessianBuilder) grow(cols columns, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{Left: -1, Right: -1})

	var G, H float64
	for _, i := range cols[0] {
		G += b.grad[i]
		H += b.hess[i]
	}
	b.nodes[id].Value = -G / (H + b.cfg.Lambda) * b.cfg.LearningRate

	if depth >= b.cfg.MaxDepth || len(cols[0]) < 2 {
		return id
	}

	s, ok := b.bestSplit(cols, G, H)
	if !ok {
		return id
	}

	cols.applySplit(s, b.goLeft)
	left, right := cols.partition(b.goLeft, b.scratch)
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	b.nodes[id].Feature = s.feature
	b.nodes[id].Threshold = s.threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

func (b *hessianBuilder) bestSplit(cols columns, G, H float64) (split, bool) {
	lambda := b.cfg.Lambda
	parentScore := G * G / (H + lambda)

	best := split{}
	found := false
	for f, col := range cols {
		var GL, HL float64
		for k := 0; k < len(col)-1; k++ {
			i := col[k]
			GL += b.grad[i]
			HL += b.hess[i]

			lo, hi := b.X[i][f], b.X[col[k+1]][f]
			if lo == hi {
				continue
			}
			GR, HR := G-GL, H-HL
			if HL < b.cfg.MinChildWeight || HR < b.cfg.MinChildWeight {
				continue
			}
			gain := 0.5*(GL*GL/(HL+lambda)+GR*GR/(HR+lambda)-parentScore) - b.cfg.Gamma
			if gain > 0 && (!found || gain > best.gain) {
				best = split{feature: f, threshold: midpoint(lo, hi), gain: gain, pos: k + 1}
				found = true
			}
		}
	}
	return best, found
}
