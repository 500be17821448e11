package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/event"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

type stubClassifier struct {
	width int
	proba float64
}

func (s stubClassifier) Strategy() valueobject.Strategy   { return valueobject.StrategyLogisticRegression }
func (s stubClassifier) NumFeatures() int                 { return s.width }
func (s stubClassifier) PredictProba(_ []float64) float64 { return s.proba }
func (s stubClassifier) MarshalParams() ([]byte, error)   { return []byte(`{}`), nil }

func newModel(t *testing.T, proba float64) *model.TrainedModel {
	t.Helper()
	schema := valueobject.SchemaLoanOrdinalV1
	m, err := model.NewTrainedModel(schema, stubClassifier{width: schema.Len(), proba: proba}, model.EvaluationReport{Accuracy: 0.9}, 100, "abc")
	require.NoError(t, err)
	return m
}

func TestNewTrainedModel_RecordsEvent(t *testing.T) {
	m := newModel(t, 0.2)

	assert.NotEqual(t, uuid.Nil, m.ID())
	assert.Equal(t, valueobject.StrategyLogisticRegression, m.Strategy())
	assert.Equal(t, 100, m.DatasetRows())

	evts := m.DomainEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, event.EventTypeModelTrained, evts[0].EventType())
	assert.Equal(t, m.ID(), evts[0].AggregateID())

	var body event.ModelTrained
	require.NoError(t, json.Unmarshal(evts[0].Payload(), &body))
	assert.Equal(t, "loan-ordinal@v1", body.Schema)
	assert.InDelta(t, 0.9, body.Accuracy, 1e-9)

	assert.Empty(t, m.DomainEvents(), "events are cleared after reading")
}

func TestNewTrainedModel_WidthMismatch(t *testing.T) {
	_, err := model.NewTrainedModel(valueobject.SchemaLoanOrdinalV1, stubClassifier{width: 9}, model.EvaluationReport{}, 10, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}

func TestTrainedModel_Predict(t *testing.T) {
	tests := []struct {
		name      string
		proba     float64
		wantClass valueobject.Label
		wantProba float64
	}{
		{name: "below threshold", proba: 0.3, wantClass: valueobject.LabelNoDefault, wantProba: 0.3},
		{name: "exactly threshold", proba: 0.5, wantClass: valueobject.LabelNoDefault, wantProba: 0.5},
		{name: "above threshold", proba: 0.81, wantClass: valueobject.LabelDefault, wantProba: 0.81},
		{name: "clamped high", proba: 1.2, wantClass: valueobject.LabelDefault, wantProba: 1},
		{name: "clamped low", proba: -0.1, wantClass: valueobject.LabelNoDefault, wantProba: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, tt.proba)
			v := model.NewFeatureVector(valueobject.SchemaLoanOrdinalV1, make([]float64, 10))

			got, err := m.Predict(v)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClass, got.Class)
			assert.InDelta(t, tt.wantProba, got.Probability, 1e-12)
		})
	}
}

func TestTrainedModel_PredictSchemaMismatch(t *testing.T) {
	m := newModel(t, 0.4)

	t.Run("wrong length", func(t *testing.T) {
		v := model.NewFeatureVector(valueobject.SchemaLoanOrdinalV1, make([]float64, 9))
		_, err := m.Predict(v)

		var mismatch *model.SchemaMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, 10, mismatch.ExpectedLen)
		assert.Equal(t, 9, mismatch.GotLen)
	})

	t.Run("wrong schema", func(t *testing.T) {
		v := model.NewFeatureVector(valueobject.SchemaBaselineOneHotV1, make([]float64, 9))
		_, err := m.Predict(v)
		require.ErrorIs(t, err, model.ErrSchemaMismatch)
		assert.Contains(t, err.Error(), "loan-baseline-onehot@v1")
	})

	t.Run("right length, wrong schema tag", func(t *testing.T) {
		v := model.NewFeatureVector(valueobject.FeatureSchema{}, make([]float64, 10))
		_, err := m.Predict(v)
		assert.ErrorIs(t, err, model.ErrSchemaMismatch)
	})
}

func TestReconstructTrainedModel_NoEvents(t *testing.T) {
	id := uuid.New()
	schema := valueobject.SchemaBaselineOneHotV1
	m, err := model.ReconstructTrainedModel(id, schema, stubClassifier{width: 9}, model.EvaluationReport{}, newModel(t, 0).TrainedAt(), 50, "fp")
	require.NoError(t, err)

	assert.Equal(t, id, m.ID())
	assert.Equal(t, "fp", m.Fingerprint())
	assert.Empty(t, m.DomainEvents())

	_, err = model.ReconstructTrainedModel(id, schema, stubClassifier{width: 10}, model.EvaluationReport{}, m.TrainedAt(), 50, "")
	assert.Error(t, err)
}
