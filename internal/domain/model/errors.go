package model

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match them with errors.Is, so
// callers can branch on the category without unpacking details.
var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrSchemaMismatch  = errors.New("feature schema mismatch")
	ErrDegenerateLabel = errors.New("degenerate label set")
	ErrArtifactLoad    = errors.New("model artifact load failed")
	ErrInputRange      = errors.New("input out of range")
	ErrModelNotFound   = errors.New("model not found")
)

// MalformedInputError describes a raw row that could not be parsed. Row is
// 1-based and counts data rows only (the header is not row 1).
type MalformedInputError struct {
	Column string
	Value  string
	Reason string
	Row    int
}

func (e *MalformedInputError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: column %q: %s (value %q)", e.Row, e.Column, e.Reason, e.Value)
	}
	return fmt.Sprintf("column %q: %s (value %q)", e.Column, e.Reason, e.Value)
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// SchemaMismatchError is returned when a feature vector does not match the
// layout a model was fit on.
type SchemaMismatchError struct {
	Expected    string
	Got         string
	ExpectedLen int
	GotLen      int
}

func (e *SchemaMismatchError) Error() string {
	if e.Expected != e.Got {
		return fmt.Sprintf("feature schema mismatch: model expects %s, vector is %s", e.Expected, e.Got)
	}
	return fmt.Sprintf("feature schema mismatch: model %s expects %d values, got %d", e.Expected, e.ExpectedLen, e.GotLen)
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// DegenerateLabelError aborts training when the label set cannot support a
// stratified split.
type DegenerateLabelError struct {
	Counts map[int]int
	Reason string
}

func (e *DegenerateLabelError) Error() string {
	return fmt.Sprintf("degenerate label set %v: %s", e.Counts, e.Reason)
}

func (e *DegenerateLabelError) Is(target error) bool { return target == ErrDegenerateLabel }

// ArtifactLoadError wraps the cause of a missing or corrupt model artifact.
type ArtifactLoadError struct {
	Err    error
	Source string
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load model artifact %s: %v", e.Source, e.Err)
}

func (e *ArtifactLoadError) Unwrap() []error { return []error{ErrArtifactLoad, e.Err} }

// InputRangeError reports a form field outside its declared bounds.
// Allowed is set instead of Min/Max for enumerated fields.
type InputRangeError struct {
	Field   string
	Value   string
	Min     string
	Max     string
	Allowed []string
}

func (e *InputRangeError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("%s=%s not one of %v", e.Field, e.Value, e.Allowed)
	}
	return fmt.Sprintf("%s=%s outside allowed range [%s, %s]", e.Field, e.Value, e.Min, e.Max)
}

func (e *InputRangeError) Is(target error) bool { return target == ErrInputRange }
