// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"math"
	"math/rand"
	"sort"
)

// Node is one decision-tree node. Exported fields keep trained trees
// gob-encodable.
type Node struct {
	// Leaf nodes predict Class; internal nodes route on Feature <= Threshold.
	Leaf      bool
	Class     int
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

// Tree is a single CART-style decision tree over dense feature vectors.
type Tree struct {
	Root *Node
}

// Predict routes a vector down the tree to a leaf class.
func (t *Tree) Predict(x []float64) int {
	n := t.Root
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Class
}

// treeBuilder carries the shared state of one tree's construction.
type treeBuilder struct {
	x           [][]float64
	y           []int
	numClasses  int
	featsPerCut int
	rng         *rand.Rand

	// importance accumulates weighted Gini decrease per feature.
	importance []float64
}

func (b *treeBuilder) build(indices []int, depth int) *Node {
	counts := b.classCounts(indices)
	majority, pure := majorityClass(counts)
	if pure || len(indices) < 2 || depth >= maxDepth {
		return &Node{Leaf: true, Class: majority}
	}

	feature, threshold, gain, left, right := b.bestSplit(indices, counts)
	if feature < 0 || len(left) == 0 || len(right) == 0 {
		return &Node{Leaf: true, Class: majority}
	}

	b.importance[feature] += gain * float64(len(indices))

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// maxDepth caps runaway recursion on pathological data; ingredient vectors
// separate long before this.
const maxDepth = 32

func (b *treeBuilder) classCounts(indices []int) []int {
	counts := make([]int, b.numClasses)
	for _, i := range indices {
		counts[b.y[i]]++
	}
	return counts
}

// majorityClass returns the most frequent class (lowest id on ties) and
// whether the node is pure.
func majorityClass(counts []int) (int, bool) {
	best, bestCount, nonzero := 0, -1, 0
	for class, c := range counts {
		if c > 0 {
			nonzero++
		}
		if c > bestCount {
			best, bestCount = class, c
		}
	}
	return best, nonzero <= 1
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

// bestSplit scans a random feature subset for the threshold with the
// largest Gini decrease.
func (b *treeBuilder) bestSplit(indices []int, counts []int) (int, float64, float64, []int, []int) {
	parentGini := gini(counts, len(indices))

	bestFeature := -1
	var bestThreshold, bestGain float64

	for _, f := range b.sampleFeatures() {
		threshold, gain, ok := b.bestThreshold(indices, f, parentGini)
		if ok && gain > bestGain {
			bestFeature, bestThreshold, bestGain = f, threshold, gain
		}
	}
	if bestFeature < 0 || bestGain <= 0 {
		return -1, 0, 0, nil, nil
	}

	var left, right []int
	for _, i := range indices {
		if b.x[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return bestFeature, bestThreshold, bestGain, left, right
}

// bestThreshold evaluates candidate cuts for one feature by a single sweep
// over the sorted values.
func (b *treeBuilder) bestThreshold(indices []int, feature int, parentGini float64) (float64, float64, bool) {
	order := make([]int, len(indices))
	copy(order, indices)
	sort.Slice(order, func(i, j int) bool {
		return b.x[order[i]][feature] < b.x[order[j]][feature]
	})

	leftCounts := make([]int, b.numClasses)
	rightCounts := b.classCounts(indices)
	total := len(indices)

	bestGain := 0.0
	bestThreshold := 0.0
	found := false

	for i := 0; i < total-1; i++ {
		idx := order[i]
		leftCounts[b.y[idx]]++
		rightCounts[b.y[idx]]--

		cur := b.x[idx][feature]
		next := b.x[order[i+1]][feature]
		if cur == next {
			continue
		}

		nLeft, nRight := i+1, total-i-1
		weighted := (float64(nLeft)*gini(leftCounts, nLeft) +
			float64(nRight)*gini(rightCounts, nRight)) / float64(total)
		gain := parentGini - weighted
		if gain > bestGain {
			bestGain = gain
			bestThreshold = (cur + next) / 2
			found = true
		}
	}
	return bestThreshold, bestGain, found
}

// sampleFeatures draws sqrt(d) distinct feature indices.
func (b *treeBuilder) sampleFeatures() []int {
	d := 0
	if len(b.x) > 0 {
		d = len(b.x[0])
	}
	if d == 0 {
		return nil
	}
	k := b.featsPerCut
	if k <= 0 || k > d {
		k = int(math.Ceil(math.Sqrt(float64(d))))
	}
	if k > d {
		k = d
	}
	return b.rng.Perm(d)[:k]
}
