package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

func smallEstimatorConfig(strategy valueobject.Strategy) service.EstimatorConfig {
	cfg := service.DefaultEstimatorConfig()
	cfg.Strategy = strategy
	cfg.Forest.NEstimators = 25
	cfg.Boosting.NEstimators = 30
	return cfg
}

func designMatrix(t *testing.T, n, positives int) ([][]float64, []valueobject.Label) {
	t.Helper()
	enc, err := service.NewEncoder(valueobject.SchemaLoanOrdinalV1)
	require.NoError(t, err)
	X, y, err := enc.EncodeDataset(syntheticLoans(n, positives, 11))
	require.NoError(t, err)
	return X, y
}

func TestEstimators_FitSeparableData(t *testing.T) {
	X, y := designMatrix(t, 300, 60)

	for _, strategy := range []valueobject.Strategy{
		valueobject.StrategyLogisticRegression,
		valueobject.StrategyRandomForest,
		valueobject.StrategyGradientBoosting,
	} {
		t.Run(strategy.String(), func(t *testing.T) {
			est, err := service.NewEstimator(smallEstimatorConfig(strategy))
			require.NoError(t, err)

			clf, err := est.Fit(context.Background(), X, y)
			require.NoError(t, err)
			assert.Equal(t, strategy, clf.Strategy())
			assert.Equal(t, 10, clf.NumFeatures())

			correct := 0
			for i, x := range X {
				p := clf.PredictProba(x)
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
				if model.Classify(p).Class == y[i] {
					correct++
				}
			}
			assert.Greater(t, float64(correct)/float64(len(X)), 0.95)
		})
	}
}

func TestEstimators_ParamsRoundTrip(t *testing.T) {
	X, y := designMatrix(t, 120, 30)

	for _, strategy := range []valueobject.Strategy{
		valueobject.StrategyLogisticRegression,
		valueobject.StrategyRandomForest,
		valueobject.StrategyGradientBoosting,
	} {
		t.Run(strategy.String(), func(t *testing.T) {
			est, err := service.NewEstimator(smallEstimatorConfig(strategy))
			require.NoError(t, err)
			clf, err := est.Fit(context.Background(), X, y)
			require.NoError(t, err)

			params, err := clf.MarshalParams()
			require.NoError(t, err)
			restored, err := service.RestoreClassifier(strategy, params)
			require.NoError(t, err)

			for _, x := range X[:20] {
				assert.Equal(t, clf.PredictProba(x), restored.PredictProba(x))
			}
		})
	}
}

func TestRandomForest_Reproducible(t *testing.T) {
	X, y := designMatrix(t, 100, 25)
	cfg := smallEstimatorConfig(valueobject.StrategyRandomForest)
	cfg.Forest.Workers = 4

	est, err := service.NewEstimator(cfg)
	require.NoError(t, err)
	a, err := est.Fit(context.Background(), X, y)
	require.NoError(t, err)
	b, err := est.Fit(context.Background(), X, y)
	require.NoError(t, err)

	pa, err := a.MarshalParams()
	require.NoError(t, err)
	pb, err := b.MarshalParams()
	require.NoError(t, err)
	assert.JSONEq(t, string(pa), string(pb))
}

func TestEstimators_CancelledContext(t *testing.T) {
	X, y := designMatrix(t, 60, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, strategy := range []valueobject.Strategy{
		valueobject.StrategyRandomForest,
		valueobject.StrategyGradientBoosting,
	} {
		est, err := service.NewEstimator(smallEstimatorConfig(strategy))
		require.NoError(t, err)
		_, err = est.Fit(ctx, X, y)
		assert.ErrorIs(t, err, context.Canceled, strategy.String())
	}
}

func TestEstimators_DegenerateLabels(t *testing.T) {
	X, y := designMatrix(t, 20, 0)

	est, err := service.NewEstimator(service.DefaultEstimatorConfig())
	require.NoError(t, err)
	_, err = est.Fit(context.Background(), X, y)
	assert.ErrorIs(t, err, model.ErrDegenerateLabel)
}

func TestRestoreClassifier_Rejects(t *testing.T) {
	_, err := service.RestoreClassifier(valueobject.StrategyRandomForest, []byte(`{"trees":[],"width":10}`))
	assert.Error(t, err)

	_, err = service.RestoreClassifier(valueobject.StrategyGradientBoosting,
		[]byte(`{"trees":[[{"f":0,"t":1,"l":0,"r":0,"v":0}]],"width":10}`))
	assert.Error(t, err, "self-referencing node")

	_, err = service.RestoreClassifier(valueobject.StrategyLogisticRegression, []byte(`{"coef":[1,2],"mean":[0],"scale":[1]}`))
	assert.Error(t, err)

	_, err = service.RestoreClassifier(valueobject.Strategy{}, []byte(`{}`))
	assert.Error(t, err)

	_, err = service.RestoreClassifier(valueobject.StrategyLogisticRegression, []byte(`not json`))
	assert.Error(t, err)
}
