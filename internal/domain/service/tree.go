package service

import (
	"cmp"
	"slices"
)

// treeNode is one node of a flattened binary tree. Leaves have Left == -1.
type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

// tree is a flattened binary tree rooted at index 0. Samples with
// x[Feature] <= Threshold go left.
type tree []treeNode

func (t tree) leaf(x []float64) float64 {
	i := 0
	for t[i].Left >= 0 {
		n := t[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t[i].Value
}

func (t tree) depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		if t[i].Left < 0 {
			return 0
		}
		return 1 + max(walk(t[i].Left), walk(t[i].Right))
	}
	return walk(0)
}

// valid checks every child index is in range and points forward, which
// rules out cycles in deserialised trees.
func (t tree) valid(width int) bool {
	if len(t) == 0 {
		return false
	}
	for i, n := range t {
		if n.Left < 0 {
			continue
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t) || n.Right >= len(t) {
			return false
		}
		if n.Feature < 0 || n.Feature >= width {
			return false
		}
	}
	return true
}

// split is a candidate partition of a node's samples.
type split struct {
	feature   int
	threshold float64
	gain      float64
	// pos is the number of sorted samples that go left.
	pos int
}

// sortByFeature orders idx by feature f and returns it.
func sortByFeature(X [][]float64, idx []int, f int) []int {
	slices.SortFunc(idx, func(a, b int) int { return cmp.Compare(X[a][f], X[b][f]) })
	return idx
}

// midpoint returns the threshold between two adjacent distinct values.
// When the midpoint rounds up to hi, lo is used so hi still goes right.
func midpoint(lo, hi float64) float64 {
	m := lo + (hi-lo)/2
	if m >= hi {
		return lo
	}
	return m
}

// columns holds, per feature, a node's sample indices sorted by that
// feature. Children are views into the parent's slices after partition.
type columns [][]int

func presort(X [][]float64, idx []int) columns {
	cols := make(columns, len(X[0]))
	for j := range cols {
		cols[j] = sortByFeature(X, slices.Clone(idx), j)
	}
	return cols
}

// partition reorders every column stably so samples with goLeft set come
// first, and returns views of both halves. goLeft is indexed by row.
func (c columns) partition(goLeft []bool, scratch []int) (left, right columns) {
	left, right = make(columns, len(c)), make(columns, len(c))
	for j, col := range c {
		l, r := 0, scratch[:0]
		for _, i := range col {
			if goLeft[i] {
				col[l] = i
				l++
			} else {
				r = append(r, i)
			}
		}
		copy(col[l:], r)
		left[j], right[j] = col[:l], col[l:]
	}
	return left, right
}

// applySplit marks which rows of the node go left under s.
func (c columns) applySplit(s split, goLeft []bool) {
	col := c[s.feature]
	for k, i := range col {
		goLeft[i] = k < s.pos
	}
}
