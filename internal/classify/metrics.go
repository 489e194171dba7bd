// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"sort"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// Evaluate scores predictions against true class ids: accuracy plus
// precision, recall and F1 weighted by class frequency (sklearn's
// "weighted" averaging, which the training reports always used).
func Evaluate(yTrue, yPred []int, numClasses int) types.EvaluationMetrics {
	var m types.EvaluationMetrics
	n := len(yTrue)
	if n == 0 || n != len(yPred) {
		return m
	}

	support := make([]int, numClasses)
	tp := make([]int, numClasses)
	fp := make([]int, numClasses)
	fn := make([]int, numClasses)

	correct := 0
	for i := range yTrue {
		truth, pred := yTrue[i], yPred[i]
		support[truth]++
		if truth == pred {
			correct++
			tp[truth]++
		} else {
			fn[truth]++
			fp[pred]++
		}
	}
	m.Accuracy = float64(correct) / float64(n)

	for class := 0; class < numClasses; class++ {
		if support[class] == 0 {
			continue
		}
		weight := float64(support[class]) / float64(n)

		var precision, recall float64
		if tp[class]+fp[class] > 0 {
			precision = float64(tp[class]) / float64(tp[class]+fp[class])
		}
		if tp[class]+fn[class] > 0 {
			recall = float64(tp[class]) / float64(tp[class]+fn[class])
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		m.Precision += weight * precision
		m.Recall += weight * recall
		m.F1 += weight * f1
	}
	return m
}

// TopTerms pairs vocabulary terms with forest importances and returns the
// top n, best first. Ties keep vocabulary order.
func TopTerms(terms []string, importances []float64, n int) []types.TermImportance {
	paired := make([]types.TermImportance, 0, len(terms))
	for i, term := range terms {
		if i < len(importances) {
			paired = append(paired, types.TermImportance{Term: term, Importance: importances[i]})
		}
	}
	sort.SliceStable(paired, func(i, j int) bool {
		return paired[i].Importance > paired[j].Importance
	})
	if n > 0 && len(paired) > n {
		paired = paired[:n]
	}
	return paired
}
