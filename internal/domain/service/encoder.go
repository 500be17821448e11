package service

import (
	"fmt"
	"strings"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

type extractor func(r model.LoanRecord) float64

// Encoder maps LoanRecords to feature vectors under one schema. Training
// and serving must share the same Encoder configuration.
type Encoder struct {
	schema     valueobject.FeatureSchema
	extractors []extractor
}

// NewEncoder resolves one extractor per schema column.
func NewEncoder(schema valueobject.FeatureSchema) (*Encoder, error) {
	if schema.IsZero() {
		return nil, fmt.Errorf("encoder: feature schema is required")
	}

	cols := schema.Columns()
	extractors := make([]extractor, len(cols))
	for i, col := range cols {
		if letter, ok := strings.CutPrefix(col, valueobject.OneHotGradePrefix); ok {
			g, err := valueobject.NewGrade(letter)
			if err != nil {
				return nil, fmt.Errorf("encoder: schema %s column %q: %w", schema, col, err)
			}
			extractors[i] = func(r model.LoanRecord) float64 {
				if r.Grade.Equal(g) {
					return 1
				}
				return 0
			}
			continue
		}

		if _, ok := (model.LoanRecord{}).Numeric(col); !ok {
			return nil, fmt.Errorf("encoder: schema %s has unknown column %q", schema, col)
		}
		extractors[i] = func(r model.LoanRecord) float64 {
			v, _ := r.Numeric(col)
			return v
		}
	}

	return &Encoder{schema: schema, extractors: extractors}, nil
}

// Schema returns the schema vectors are encoded under.
func (e *Encoder) Schema() valueobject.FeatureSchema { return e.schema }

// Encode produces the feature vector for one record. Values outside the
// input form ranges are passed through unchanged.
func (e *Encoder) Encode(r model.LoanRecord) (model.FeatureVector, error) {
	if r.Grade.IsZero() {
		return model.FeatureVector{}, &model.MalformedInputError{
			Column: valueobject.ColumnGrade,
			Reason: "grade must be one of A..G",
		}
	}

	values := make([]float64, len(e.extractors))
	for i, fn := range e.extractors {
		values[i] = fn(r)
	}
	return model.FeatureVector{Schema: e.schema, Values: values}, nil
}

// EncodeFields parses raw string values, as submitted by a form or read
// from CSV, and encodes them. Type mismatches name the offending column.
func (e *Encoder) EncodeFields(fields map[string]string) (model.FeatureVector, error) {
	r, err := model.ParseLoanRecord(fields)
	if err != nil {
		return model.FeatureVector{}, err
	}
	return e.Encode(r)
}

// EncodeDataset encodes every loan into a design matrix and label slice.
func (e *Encoder) EncodeDataset(loans []model.LabeledLoan) ([][]float64, []valueobject.Label, error) {
	X := make([][]float64, len(loans))
	y := make([]valueobject.Label, len(loans))
	for i, l := range loans {
		v, err := e.Encode(l.Record)
		if err != nil {
			return nil, nil, fmt.Errorf("encode row %d: %w", i+1, err)
		}
		X[i] = v.Values
		y[i] = l.Label
	}
	return X, y, nil
}
