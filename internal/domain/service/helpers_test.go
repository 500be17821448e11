package service_test

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// syntheticLoans returns n loans, the first `positives` of which default.
// Defaulted loans have lower grades, higher rates and are past due, so
// every strategy can separate the classes.
func syntheticLoans(n, positives int, seed uint64) []model.LabeledLoan {
	rng := rand.New(rand.NewPCG(seed, 1))
	grades := valueobject.Grades()
	terms := []int{36, 60}

	loans := make([]model.LabeledLoan, n)
	for i := range loans {
		label := valueobject.LabelNoDefault
		grade := grades[rng.IntN(3)]
		rate := 5 + rng.Float64()*8
		dpd := rng.IntN(5)
		if i < positives {
			label = valueobject.LabelDefault
			grade = grades[4+rng.IntN(3)]
			rate = 18 + rng.Float64()*10
			dpd = 60 + rng.IntN(120)
		}

		amount := int64(1000 + rng.IntN(30000))
		loans[i] = model.LabeledLoan{
			Label: label,
			Record: model.LoanRecord{
				AmountBorrowed:   decimal.NewFromInt(amount),
				Term:             terms[rng.IntN(len(terms))],
				BorrowerRate:     rate,
				Installment:      decimal.NewFromInt(amount / 30),
				Grade:            grade,
				PrincipalBalance: decimal.NewFromInt(amount / 2),
				PrincipalPaid:    decimal.NewFromInt(amount / 2),
				InterestPaid:     decimal.NewFromInt(int64(rng.IntN(2000))),
				LateFeesPaid:     decimal.Zero,
				DaysPastDue:      dpd,
			},
		}
	}
	return loans
}

func exampleRecord() model.LoanRecord {
	return model.LoanRecord{
		AmountBorrowed:   decimal.NewFromInt(10000),
		Term:             36,
		BorrowerRate:     15.0,
		Grade:            valueobject.GradeC,
		PrincipalBalance: decimal.NewFromInt(5000),
		PrincipalPaid:    decimal.NewFromInt(2000),
		InterestPaid:     decimal.NewFromInt(500),
		LateFeesPaid:     decimal.Zero,
		DaysPastDue:      0,
	}
}
