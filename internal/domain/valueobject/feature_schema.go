package valueobject

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FeatureSchema fixes the column order of an encoded feature vector. A
// model is only valid for vectors encoded under the schema it was fit on.
type FeatureSchema struct {
	id      string
	columns []string
	version int
}

// OneHotGradePrefix prefixes indicator columns of the one-hot grade encoding.
const OneHotGradePrefix = "grade_"

var (
	// SchemaLoanOrdinalV1 is the canonical schema: all ten retained
	// features with grade encoded as its ordinal.
	SchemaLoanOrdinalV1 = FeatureSchema{
		id:      "loan-ordinal",
		version: 1,
		columns: []string{
			ColumnAmountBorrowed,
			ColumnTerm,
			ColumnBorrowerRate,
			ColumnInstallment,
			ColumnGrade,
			ColumnPrincipalBalance,
			ColumnPrincipalPaid,
			ColumnInterestPaid,
			ColumnLateFeesPaid,
			ColumnDaysPastDue,
		},
	}

	// SchemaBaselineOneHotV1 is the four-feature baseline with grade
	// one-hot encoded and grade A as the dropped reference level.
	SchemaBaselineOneHotV1 = FeatureSchema{
		id:      "loan-baseline-onehot",
		version: 1,
		columns: []string{
			ColumnAmountBorrowed,
			ColumnTerm,
			ColumnBorrowerRate,
			OneHotGradePrefix + "B",
			OneHotGradePrefix + "C",
			OneHotGradePrefix + "D",
			OneHotGradePrefix + "E",
			OneHotGradePrefix + "F",
			OneHotGradePrefix + "G",
		},
	}
)

var registeredSchemas = []FeatureSchema{SchemaLoanOrdinalV1, SchemaBaselineOneHotV1}

// DefaultFeatureSchema is used when configuration names none.
func DefaultFeatureSchema() FeatureSchema { return SchemaLoanOrdinalV1 }

// LookupFeatureSchema finds a registered schema by id and version.
func LookupFeatureSchema(id string, version int) (FeatureSchema, error) {
	for _, s := range registeredSchemas {
		if s.id == id && s.version == version {
			return s, nil
		}
	}
	return FeatureSchema{}, fmt.Errorf("unknown feature schema %s@v%d", id, version)
}

// ParseFeatureSchema accepts "id@vN" or a bare id, which resolves to the
// latest registered version of that id.
func ParseFeatureSchema(ref string) (FeatureSchema, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return DefaultFeatureSchema(), nil
	}

	id, ver, found := strings.Cut(ref, "@")
	if !found {
		var latest FeatureSchema
		for _, s := range registeredSchemas {
			if s.id == id && s.version > latest.version {
				latest = s
			}
		}
		if latest.IsZero() {
			return FeatureSchema{}, fmt.Errorf("unknown feature schema %q", ref)
		}
		return latest, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(ver, "v"))
	if err != nil {
		return FeatureSchema{}, fmt.Errorf("invalid feature schema version in %q", ref)
	}
	return LookupFeatureSchema(id, n)
}

func (s FeatureSchema) ID() string   { return s.id }
func (s FeatureSchema) Version() int { return s.version }
func (s FeatureSchema) Len() int     { return len(s.columns) }

// Columns returns a copy of the ordered column names.
func (s FeatureSchema) Columns() []string { return slices.Clone(s.columns) }

// String renders the schema reference, e.g. "loan-ordinal@v1".
func (s FeatureSchema) String() string {
	if s.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s@v%d", s.id, s.version)
}

// IsZero returns true if the schema has not been set.
func (s FeatureSchema) IsZero() bool { return s.id == "" }

// Equal compares identity and column layout.
func (s FeatureSchema) Equal(other FeatureSchema) bool {
	return s.id == other.id && s.version == other.version && slices.Equal(s.columns, other.columns)
}
