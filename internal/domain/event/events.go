package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/Mohana-teja/loan-default-dashboard/pkg/events"
)

const (
	// EventTypeModelTrained is emitted when a classifier has been fit and evaluated.
	EventTypeModelTrained = "loan_default.model.trained"

	// EventTypeHighRiskPredicted is emitted when a prediction lands in the default class.
	EventTypeHighRiskPredicted = "loan_default.prediction.high_risk"

	// AggregateTypeModel tags events raised for a TrainedModel.
	AggregateTypeModel = "trained_model"
)

// ModelTrained is published after a training run, carrying the headline
// held-out metrics.
type ModelTrained struct {
	TrainedAt   time.Time `json:"trained_at"`
	Strategy    string    `json:"strategy"`
	Schema      string    `json:"schema"`
	DatasetRows int       `json:"dataset_rows"`
	Accuracy    float64   `json:"accuracy"`
	F1Default   float64   `json:"f1_default"`
	ModelID     uuid.UUID `json:"model_id"`
}

// NewModelTrained wraps the payload as a domain event.
func NewModelTrained(body ModelTrained) (events.DomainEvent, error) {
	evt, err := events.NewJSONEvent(EventTypeModelTrained, body.ModelID, AggregateTypeModel, body)
	if err != nil {
		return nil, err
	}
	return evt, nil
}

// HighRiskPredicted is published when a loan is predicted to default.
type HighRiskPredicted struct {
	PredictedAt time.Time `json:"predicted_at"`
	Grade       string    `json:"grade"`
	Probability float64   `json:"probability"`
	Amount      string    `json:"amount_borrowed"`
	Term        int       `json:"term"`
	ModelID     uuid.UUID `json:"model_id"`
}

// NewHighRiskPredicted wraps the payload as a domain event.
func NewHighRiskPredicted(body HighRiskPredicted) (events.DomainEvent, error) {
	evt, err := events.NewJSONEvent(EventTypeHighRiskPredicted, body.ModelID, AggregateTypeModel, body)
	if err != nil {
		return nil, err
	}
	return evt, nil
}
