package valueobject

import "fmt"

// Grade is the ordinal loan-risk category, A (lowest risk) through G.
type Grade struct {
	value string
}

var (
	GradeA = Grade{value: "A"}
	GradeB = Grade{value: "B"}
	GradeC = Grade{value: "C"}
	GradeD = Grade{value: "D"}
	GradeE = Grade{value: "E"}
	GradeF = Grade{value: "F"}
	GradeG = Grade{value: "G"}
)

var orderedGrades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeE, GradeF, GradeG}

// Grades returns every grade in ascending risk order.
func Grades() []Grade {
	out := make([]Grade, len(orderedGrades))
	copy(out, orderedGrades)
	return out
}

// NewGrade parses a grade letter. Matching is exact: "c" is rejected.
func NewGrade(s string) (Grade, error) {
	for _, g := range orderedGrades {
		if g.value == s {
			return g, nil
		}
	}
	return Grade{}, fmt.Errorf("invalid grade: %q", s)
}

// GradeFromOrdinal is the inverse of Ordinal.
func GradeFromOrdinal(i int) (Grade, error) {
	if i < 0 || i >= len(orderedGrades) {
		return Grade{}, fmt.Errorf("invalid grade ordinal: %d", i)
	}
	return orderedGrades[i], nil
}

// Ordinal maps A→0, B→1, … G→6. The zero Grade maps to -1.
func (g Grade) Ordinal() int {
	if g.value == "" {
		return -1
	}
	return int(g.value[0] - 'A')
}

func (g Grade) String() string { return g.value }

// IsZero returns true if the grade has not been set.
func (g Grade) IsZero() bool { return g.value == "" }

// Equal returns true when both grades carry the same value.
func (g Grade) Equal(other Grade) bool { return g.value == other.value }
