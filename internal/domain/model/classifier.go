package model

import "github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"

// Classifier is a fitted binary classifier. Implementations are immutable
// once fit and safe for concurrent PredictProba calls.
type Classifier interface {
	Strategy() valueobject.Strategy
	// NumFeatures is the input width the classifier was fit on.
	NumFeatures() int
	// PredictProba returns P(label = 1 | x).
	PredictProba(x []float64) float64
	// MarshalParams serialises the learned parameters for the artifact codec.
	MarshalParams() ([]byte, error)
}
