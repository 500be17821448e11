package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/event"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/events"
)

// DecisionThreshold is the positive-class probability above which a
// prediction is labelled as a default.
const DecisionThreshold = 0.5

// Prediction is the outcome for one feature vector.
type Prediction struct {
	Class       valueobject.Label
	Probability float64
}

// TrainedModel is the aggregate root for a fitted classifier and the
// feature schema it was fit on. It is immutable after creation.
type TrainedModel struct {
	events.Outbox

	trainedAt   time.Time
	classifier  Classifier
	schema      valueobject.FeatureSchema
	strategy    valueobject.Strategy
	fingerprint string
	evaluation  EvaluationReport
	datasetRows int
	id          uuid.UUID
}

// NewTrainedModel wraps a freshly fit classifier and records a
// ModelTrained event.
func NewTrainedModel(
	schema valueobject.FeatureSchema,
	classifier Classifier,
	evaluation EvaluationReport,
	datasetRows int,
	fingerprint string,
) (*TrainedModel, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if schema.IsZero() {
		return nil, fmt.Errorf("feature schema is required")
	}
	if classifier.NumFeatures() != schema.Len() {
		return nil, &SchemaMismatchError{
			Expected:    schema.String(),
			Got:         schema.String(),
			ExpectedLen: schema.Len(),
			GotLen:      classifier.NumFeatures(),
		}
	}
	if datasetRows <= 0 {
		return nil, fmt.Errorf("dataset rows must be positive, got %d", datasetRows)
	}

	m := &TrainedModel{
		id:          uuid.New(),
		strategy:    classifier.Strategy(),
		schema:      schema,
		classifier:  classifier,
		evaluation:  evaluation,
		datasetRows: datasetRows,
		fingerprint: fingerprint,
		trainedAt:   time.Now().UTC(),
	}

	evt, err := event.NewModelTrained(event.ModelTrained{
		ModelID:     m.id,
		Strategy:    m.strategy.String(),
		Schema:      schema.String(),
		DatasetRows: datasetRows,
		Accuracy:    evaluation.Accuracy,
		F1Default:   evaluation.Classes[valueobject.LabelDefault].F1,
		TrainedAt:   m.trainedAt,
	})
	if err != nil {
		return nil, err
	}
	m.Raise(evt)

	return m, nil
}

// ReconstructTrainedModel rebuilds a model from a persisted artifact (no
// validation beyond width, no events).
func ReconstructTrainedModel(
	id uuid.UUID,
	schema valueobject.FeatureSchema,
	classifier Classifier,
	evaluation EvaluationReport,
	trainedAt time.Time,
	datasetRows int,
	fingerprint string,
) (*TrainedModel, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if classifier.NumFeatures() != schema.Len() {
		return nil, fmt.Errorf("classifier width %d does not match schema %s (%d columns)",
			classifier.NumFeatures(), schema, schema.Len())
	}
	return &TrainedModel{
		id:          id,
		strategy:    classifier.Strategy(),
		schema:      schema,
		classifier:  classifier,
		evaluation:  evaluation,
		trainedAt:   trainedAt,
		datasetRows: datasetRows,
		fingerprint: fingerprint,
	}, nil
}

// Predict scores one vector. The vector must have been encoded under the
// model's schema; anything else is a *SchemaMismatchError.
func (m *TrainedModel) Predict(v FeatureVector) (Prediction, error) {
	if err := v.CheckSchema(m.schema); err != nil {
		return Prediction{}, err
	}

	p := m.classifier.PredictProba(v.Values)
	if math.IsNaN(p) {
		return Prediction{}, fmt.Errorf("model %s produced NaN probability", m.id)
	}
	return Classify(p), nil
}

// Classify clamps a positive-class probability to [0, 1] and applies the
// decision threshold.
func Classify(p float64) Prediction {
	p = math.Min(1, math.Max(0, p))
	class := valueobject.LabelNoDefault
	if p > DecisionThreshold {
		class = valueobject.LabelDefault
	}
	return Prediction{Class: class, Probability: p}
}

// --- Accessors ---

func (m *TrainedModel) ID() uuid.UUID                     { return m.id }
func (m *TrainedModel) Strategy() valueobject.Strategy    { return m.strategy }
func (m *TrainedModel) Schema() valueobject.FeatureSchema { return m.schema }
func (m *TrainedModel) Classifier() Classifier            { return m.classifier }
func (m *TrainedModel) Evaluation() EvaluationReport      { return m.evaluation }
func (m *TrainedModel) TrainedAt() time.Time              { return m.trainedAt }
func (m *TrainedModel) DatasetRows() int                  { return m.datasetRows }
func (m *TrainedModel) Fingerprint() string               { return m.fingerprint }

// DomainEvents returns all accumulated domain events and clears them.
func (m *TrainedModel) DomainEvents() []events.DomainEvent {
	return m.Drain()
}
