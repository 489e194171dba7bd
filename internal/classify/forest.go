// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify trains and applies the recipe category model: a bagged
// ensemble of decision trees over TF-IDF ingredient vectors, plus the
// keyword rules that synthesize categories for corpora without labels and
// the metrics reported against the held-out split.
package classify

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Forest is a bagged decision-tree classifier. Exported fields keep a
// trained forest gob-encodable.
type Forest struct {
	Trees       []*Tree
	NumClasses  int
	NumFeatures int

	// FeatureImportance is the normalized mean Gini decrease per feature,
	// summing to 1 (all zero when no split ever fired).
	FeatureImportance []float64
}

// TrainForest fits size bagged trees on the matrix x against class ids y.
// Each tree sees a bootstrap sample and considers a sqrt-sized random
// feature subset per split. The seed makes training reproducible.
func TrainForest(x [][]float64, y []int, size int, seed int64) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("training matrix and labels disagree: %d rows, %d labels", len(x), len(y))
	}
	if size <= 0 {
		size = 100
	}

	numClasses := 0
	for _, class := range y {
		if class < 0 {
			return nil, fmt.Errorf("negative class id %d", class)
		}
		if class+1 > numClasses {
			numClasses = class + 1
		}
	}

	numFeatures := len(x[0])
	f := &Forest{
		Trees:             make([]*Tree, 0, size),
		NumClasses:        numClasses,
		NumFeatures:       numFeatures,
		FeatureImportance: make([]float64, numFeatures),
	}

	n := len(x)
	for i := 0; i < size; i++ {
		rng := rand.New(rand.NewSource(seed + int64(i)))

		sample := make([]int, n)
		for j := range sample {
			sample[j] = rng.Intn(n)
		}

		b := &treeBuilder{
			x:          x,
			y:          y,
			numClasses: numClasses,
			rng:        rng,
			importance: make([]float64, numFeatures),
		}
		f.Trees = append(f.Trees, &Tree{Root: b.build(sample, 0)})
		floats.Add(f.FeatureImportance, b.importance)
	}

	if total := floats.Sum(f.FeatureImportance); total > 0 {
		floats.Scale(1/total, f.FeatureImportance)
	}
	return f, nil
}

// Predict returns the majority-vote class for one vector, lowest class id
// on ties.
func (f *Forest) Predict(x []float64) int {
	votes := make([]int, f.NumClasses)
	for _, t := range f.Trees {
		votes[t.Predict(x)]++
	}
	best, bestVotes := 0, -1
	for class, v := range votes {
		if v > bestVotes {
			best, bestVotes = class, v
		}
	}
	return best
}

// PredictAll maps Predict over a matrix.
func (f *Forest) PredictAll(x [][]float64) []int {
	out := make([]int, len(x))
	for i, row := range x {
		out[i] = f.Predict(row)
	}
	return out
}
