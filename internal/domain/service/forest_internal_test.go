package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

func fitForest(t *testing.T, cfg ForestConfig, X [][]float64, y []valueobject.Label) *RandomForest {
	t.Helper()
	clf, err := forestEstimator{cfg: cfg}.Fit(context.Background(), X, y)
	require.NoError(t, err)
	forest, ok := clf.(*RandomForest)
	require.True(t, ok)
	return forest
}

// One informative column among nine that are constant, the shape of the
// mostly-zero fee and delinquency columns.
func TestRandomForest_SkipsConstantFeatures(t *testing.T) {
	const n, width = 200, 10
	X := make([][]float64, n)
	y := make([]valueobject.Label, n)
	for i := range X {
		X[i] = make([]float64, width)
		X[i][0] = float64(i)
		if i >= n/2 {
			y[i] = valueobject.LabelDefault
		}
	}

	cfg := DefaultForestConfig()
	cfg.NEstimators = 20
	forest := fitForest(t, cfg, X, y)

	for i, tr := range forest.Trees {
		assert.Greater(t, len(tr), 1, "tree %d stopped at the root", i)
	}

	low := make([]float64, width)
	low[0] = 10
	high := make([]float64, width)
	high[0] = 190
	assert.Less(t, forest.PredictProba(low), 0.05)
	assert.Greater(t, forest.PredictProba(high), 0.95)
}

func TestRandomForest_RespectsMaxDepth(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	const n = 300
	X := make([][]float64, n)
	y := make([]valueobject.Label, n)
	for i := range X {
		X[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
		if rng.IntN(2) == 1 {
			y[i] = valueobject.LabelDefault
		}
	}

	cfg := DefaultForestConfig()
	cfg.NEstimators = 10
	cfg.MaxDepth = 3
	forest := fitForest(t, cfg, X, y)

	deepest := 0
	for _, tr := range forest.Trees {
		assert.LessOrEqual(t, tr.depth(), 3)
		deepest = max(deepest, tr.depth())
	}
	assert.Equal(t, 3, deepest, "random labels should grow every tree to the limit")
}
