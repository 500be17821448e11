package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// InsightsReporter aggregates a cleaned dataset. It never mutates its input.
type InsightsReporter struct{}

// NewInsightsReporter creates a new InsightsReporter instance.
func NewInsightsReporter() *InsightsReporter {
	return &InsightsReporter{}
}

// Generate computes label counts, default rates by grade (ascending by
// rate) and by term (ascending by term), and distributions of amount
// borrowed and borrower rate per label.
func (r *InsightsReporter) Generate(loans []model.LabeledLoan) (model.InsightsReport, error) {
	if len(loans) == 0 {
		return model.InsightsReport{}, fmt.Errorf("insights: empty dataset")
	}

	var (
		report  = model.InsightsReport{TotalRows: len(loans)}
		byGrade = make(map[string]*groupAcc)
		byTerm  = make(map[int]*groupAcc)
		amounts [2][]float64
		rates   [2][]float64
	)

	for _, l := range loans {
		report.LabelCounts[l.Label]++
		accumulate(byGrade, l.Record.Grade.String(), l.Label)
		accumulate(byTerm, l.Record.Term, l.Label)
		amounts[l.Label] = append(amounts[l.Label], l.Record.AmountBorrowed.InexactFloat64())
		rates[l.Label] = append(rates[l.Label], l.Record.BorrowerRate)
	}
	report.OverallDefault = float64(report.LabelCounts[1]) / float64(len(loans))

	for grade, acc := range byGrade {
		report.RateByGrade = append(report.RateByGrade, acc.rate(grade))
	}
	slices.SortFunc(report.RateByGrade, func(a, b model.GroupRate) int {
		return cmp.Or(cmp.Compare(a.Rate, b.Rate), cmp.Compare(a.Group, b.Group))
	})

	terms := make([]int, 0, len(byTerm))
	for term := range byTerm {
		terms = append(terms, term)
	}
	slices.Sort(terms)
	for _, term := range terms {
		report.RateByTerm = append(report.RateByTerm, byTerm[term].rate(strconv.Itoa(term)))
	}

	for label := range amounts {
		report.AmountByLabel[label] = Describe(amounts[label])
		report.RateByLabel[label] = Describe(rates[label])
	}

	return report, nil
}

type groupAcc struct {
	count, defaults int
}

func (a *groupAcc) rate(group string) model.GroupRate {
	return model.GroupRate{Group: group, Count: a.count, Rate: float64(a.defaults) / float64(a.count)}
}

func accumulate[K comparable](m map[K]*groupAcc, key K, label valueobject.Label) {
	acc, ok := m[key]
	if !ok {
		acc = &groupAcc{}
		m[key] = acc
	}
	acc.count++
	if label == valueobject.LabelDefault {
		acc.defaults++
	}
}

// Describe summarises xs. The input is not modified. Quartiles use linear
// interpolation between closest ranks, matching the usual describe()
// output. An empty input yields a zero Distribution.
func Describe(xs []float64) model.Distribution {
	if len(xs) == 0 {
		return model.Distribution{}
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	return model.Distribution{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    floats.Min(sorted),
		Q1:     quantileLinear(sorted, 0.25),
		Median: quantileLinear(sorted, 0.5),
		Q3:     quantileLinear(sorted, 0.75),
		Max:    floats.Max(sorted),
	}
}

// quantileLinear interpolates at rank p*(n-1) in sorted data. gonum's
// stat.Quantile offers the empirical and LinInterp (CDF-based) estimators,
// neither of which reproduces this definition.
func quantileLinear(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := math.Floor(pos)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (pos-lo)*(sorted[i+1]-sorted[i])
}
