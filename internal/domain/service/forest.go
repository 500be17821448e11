package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// ForestConfig configures a random forest of gini CART trees.
type ForestConfig struct {
	NEstimators     int    `yaml:"n_estimators"`
	MaxDepth        int    `yaml:"max_depth"`
	MinSamplesSplit int    `yaml:"min_samples_split"`
	Seed            uint64 `yaml:"seed"`
	// Workers bounds parallel tree fitting; 0 means GOMAXPROCS.
	Workers       int  `yaml:"workers"`
	Bootstrap     bool `yaml:"bootstrap"`
	BalanceWeight bool `yaml:"class_weight_balanced"`
}

// DefaultForestConfig matches the random forest script settings.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NEstimators:     100,
		MaxDepth:        15,
		MinSamplesSplit: 2,
		Seed:            DefaultSeed,
		Bootstrap:       true,
		BalanceWeight:   true,
	}
}

// RandomForest averages the positive-class leaf fractions of its trees.
type RandomForest struct {
	Trees []tree `json:"trees"`
	Width int    `json:"width"`
}

var _ model.Classifier = (*RandomForest)(nil)

type forestEstimator struct {
	cfg ForestConfig
}

func (e forestEstimator) Fit(ctx context.Context, X [][]float64, y []valueobject.Label) (model.Classifier, error) {
	if err := checkDesign(X, y); err != nil {
		return nil, err
	}
	if e.cfg.NEstimators <= 0 {
		return nil, fmt.Errorf("random forest: n_estimators must be positive")
	}

	n, p := len(X), len(X[0])
	classWeight := [2]float64{1, 1}
	if e.cfg.BalanceWeight {
		classWeight = BalancedClassWeights(y)
	}
	mtry := max(1, int(math.Sqrt(float64(p))))

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]tree, e.cfg.NEstimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(e.cfg.Seed, uint64(t)))

			sample := make([]int, n)
			for i := range sample {
				if e.cfg.Bootstrap {
					sample[i] = rng.IntN(n)
				} else {
					sample[i] = i
				}
			}

			b := &giniBuilder{
				X:           X,
				y:           y,
				classWeight: classWeight,
				maxDepth:    e.cfg.MaxDepth,
				minSplit:    max(2, e.cfg.MinSamplesSplit),
				mtry:        mtry,
				rng:         rng,
				goLeft:      make([]bool, n),
				scratch:     make([]int, 0, n),
			}
			b.grow(presort(X, sample), 0)
			trees[t] = b.nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("random forest: %w", err)
	}

	return &RandomForest{Trees: trees, Width: p}, nil
}

func (f *RandomForest) Strategy() valueobject.Strategy { return valueobject.StrategyRandomForest }
func (f *RandomForest) NumFeatures() int               { return f.Width }
func (f *RandomForest) MarshalParams() ([]byte, error) { return json.Marshal(f) }

func (f *RandomForest) PredictProba(x []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.leaf(x)
	}
	return sum / float64(len(f.Trees))
}

func (f *RandomForest) validate() error {
	if f.Width <= 0 || len(f.Trees) == 0 {
		return fmt.Errorf("random forest params: empty forest")
	}
	for i, t := range f.Trees {
		if !t.valid(f.Width) {
			return fmt.Errorf("random forest params: tree %d is malformed", i)
		}
	}
	return nil
}

// giniBuilder grows one weighted CART classification tree.
type giniBuilder struct {
	X           [][]float64
	y           []valueobject.Label
	rng         *rand.Rand
	goLeft      []bool
	scratch     []int
	nodes       tree
	classWeight [2]float64
	maxDepth    int
	minSplit    int
	mtry        int
}

func (b *giniBuilder) grow(cols columns, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{Left: -1, Right: -1})

	var w [2]float64
	for _, i := range cols[0] {
		w[b.y[i]] += b.classWeight[b.y[i]]
	}
	b.nodes[id].Value = w[1] / (w[0] + w[1])

	if (b.maxDepth > 0 && depth >= b.maxDepth) || len(cols[0]) < b.minSplit || w[0] == 0 || w[1] == 0 {
		return id
	}

	s, ok := b.bestSplit(cols, w)
	if !ok {
		return id
	}

	cols.applySplit(s, b.goLeft)
	left, right := cols.partition(b.goLeft, b.scratch)
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	b.nodes[id].Feature = s.feature
	b.nodes[id].Threshold = s.threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

// weightedGini returns W * gini(w), the impurity scaled by node weight.
func weightedGini(w [2]float64) float64 {
	total := w[0] + w[1]
	if total == 0 {
		return 0
	}
	return total - (w[0]*w[0]+w[1]*w[1])/total
}

// bestSplit draws features in random order and scores them until mtry
// features that vary within the node have been seen. Constant features do
// not count towards mtry.
func (b *giniBuilder) bestSplit(cols columns, parent [2]float64) (split, bool) {
	best := split{gain: 1e-12}
	found := false
	parentImpurity := weightedGini(parent)

	visited := 0
	for _, f := range b.rng.Perm(len(cols)) {
		if visited == b.mtry {
			break
		}
		col := cols[f]
		if len(col) == 0 || b.X[col[0]][f] == b.X[col[len(col)-1]][f] {
			continue
		}
		visited++

		var left [2]float64
		for k := 0; k < len(col)-1; k++ {
			i := col[k]
			left[b.y[i]] += b.classWeight[b.y[i]]

			lo, hi := b.X[i][f], b.X[col[k+1]][f]
			if lo == hi {
				continue
			}
			right := [2]float64{parent[0] - left[0], parent[1] - left[1]}
			gain := parentImpurity - weightedGini(left) - weightedGini(right)
			if gain > best.gain {
				best = split{feature: f, threshold: midpoint(lo, hi), gain: gain, pos: k + 1}
				found = true
			}
		}
	}
	return best, found
}
