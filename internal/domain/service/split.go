package service

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// DefaultSeed is the split and ensemble seed used unless configured.
const DefaultSeed = 42

// LabelCounts tallies each class.
func LabelCounts(y []valueobject.Label) [2]int {
	var counts [2]int
	for _, l := range y {
		counts[l]++
	}
	return counts
}

// CheckLabels returns a *model.DegenerateLabelError unless both classes
// have at least two examples, the minimum for a stratified split.
func CheckLabels(y []valueobject.Label) error {
	counts := LabelCounts(y)
	countMap := map[int]int{0: counts[0], 1: counts[1]}
	switch {
	case counts[0] == 0 || counts[1] == 0:
		return &model.DegenerateLabelError{Counts: countMap, Reason: "fewer than two distinct labels"}
	case counts[0] < 2 || counts[1] < 2:
		return &model.DegenerateLabelError{Counts: countMap, Reason: "each class needs at least two examples to stratify"}
	}
	return nil
}

// StratifiedSplit partitions example indices into train and test sets so
// that each class contributes round(n_c * testFraction) test examples,
// clamped so both partitions keep every class. Output is sorted and
// reproducible for a given seed.
func StratifiedSplit(y []valueobject.Label, testFraction float64, seed uint64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %g", testFraction)
	}
	if err := CheckLabels(y); err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	var byClass [2][]int
	for i, l := range y {
		byClass[l] = append(byClass[l], i)
	}

	for _, idx := range byClass {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(math.Round(float64(len(idx)) * testFraction))
		nTest = max(1, min(nTest, len(idx)-1))

		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}

	slices.Sort(train)
	slices.Sort(test)
	return train, test, nil
}

// BalancedClassWeights returns n / (2 * n_c) per class.
func BalancedClassWeights(y []valueobject.Label) [2]float64 {
	counts := LabelCounts(y)
	var w [2]float64
	for c, n := range counts {
		if n > 0 {
			w[c] = float64(len(y)) / (2 * float64(n))
		}
	}
	return w
}

func selectRows(X [][]float64, y []valueobject.Label, idx []int) ([][]float64, []valueobject.Label) {
	xs := make([][]float64, len(idx))
	ys := make([]valueobject.Label, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
