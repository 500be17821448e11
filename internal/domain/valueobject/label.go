package valueobject

import "fmt"

// Label is the binary default flag.
type Label int

const (
	LabelNoDefault Label = 0
	LabelDefault   Label = 1
)

// Loan status descriptions that count as a default. Matching is exact and
// case-sensitive.
const (
	StatusChargedOff = "CHARGED OFF"
	StatusDefaulted  = "DEFAULTED"
)

// LabelFromStatus derives the default flag from a loan status description.
func LabelFromStatus(status string) Label {
	switch status {
	case StatusChargedOff, StatusDefaulted:
		return LabelDefault
	default:
		return LabelNoDefault
	}
}

// NewLabel validates an integer flag.
func NewLabel(v int) (Label, error) {
	switch Label(v) {
	case LabelNoDefault, LabelDefault:
		return Label(v), nil
	default:
		return 0, fmt.Errorf("invalid default flag: %d", v)
	}
}

// Labels returns both classes in ascending order.
func Labels() []Label { return []Label{LabelNoDefault, LabelDefault} }

func (l Label) Int() int { return int(l) }

func (l Label) String() string {
	if l == LabelDefault {
		return "default"
	}
	return "no_default"
}
