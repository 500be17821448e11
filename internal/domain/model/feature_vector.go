package model

import (
	"slices"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// FeatureVector is an encoded record tagged with the schema that produced it.
type FeatureVector struct {
	Schema valueobject.FeatureSchema
	Values []float64
}

// NewFeatureVector copies values so later mutation by the caller cannot
// change the vector.
func NewFeatureVector(schema valueobject.FeatureSchema, values []float64) FeatureVector {
	return FeatureVector{Schema: schema, Values: slices.Clone(values)}
}

// Len returns the number of encoded values.
func (v FeatureVector) Len() int { return len(v.Values) }

// CheckSchema returns a *SchemaMismatchError unless the vector was encoded
// under want and carries exactly want.Len() values.
func (v FeatureVector) CheckSchema(want valueobject.FeatureSchema) error {
	if !v.Schema.Equal(want) || len(v.Values) != want.Len() {
		return &SchemaMismatchError{
			Expected:    want.String(),
			Got:         v.Schema.String(),
			ExpectedLen: want.Len(),
			GotLen:      len(v.Values),
		}
	}
	return nil
}
