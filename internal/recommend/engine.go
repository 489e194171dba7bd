// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend is the recommendation engine: a one-shot training
// pipeline over a recipe corpus and the read-only query operations served
// against the frozen result. A trained engine may answer concurrent queries
// without coordination because nothing mutates its state after training.
package recommend

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"

	"github.com/pdiddy/recipe-engine/internal/feature"
	"github.com/pdiddy/recipe-engine/internal/ingredient"
	"github.com/pdiddy/recipe-engine/internal/model"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// ErrNotTrained signals a query against an engine that was never trained.
// The call fails; the engine stays usable once training has run.
var ErrNotTrained = errors.New("engine is not trained")

// Scoring blend: similarity 30%, ingredient coverage 40%, missing-count
// penalty 30%. Fixed design constants, not configuration.
const (
	similarityWeight = 0.3
	coverageWeight   = 0.4
	missingWeight    = 0.3

	// categoryBoost is added, uncapped, to candidates in the predicted
	// category.
	categoryBoost = 0.10
)

// DefaultThreshold is the minimum combined score a recommendation needs.
const DefaultThreshold = 0.3

// Engine answers recipe queries against one trained state.
type Engine struct {
	state *model.State
}

// New wraps a trained (or freshly loaded) state. A state reconstructed from
// a blob is immediately query-ready.
func New(state *model.State) *Engine {
	return &Engine{state: state}
}

// Snapshot exposes the trained state for persistence.
func (e *Engine) Snapshot() *model.State { return e.state }

// Metrics returns the held-out evaluation report from training.
func (e *Engine) Metrics() types.EvaluationMetrics {
	if e.state == nil {
		return types.EvaluationMetrics{}
	}
	return e.state.Metrics
}

func (e *Engine) trained() bool {
	return e != nil && e.state != nil && e.state.Vectorizer != nil && e.state.Vectorizer.Fitted()
}

// Recommend ranks recipes against the user's ingredient list and returns at
// most topN results with combined score at or above threshold.
//
// Every recipe in both splits is a candidate; the held-out split is only
// "unseen" for evaluation, not for serving. When fewer than topN candidates
// clear the threshold the engine falls back to the best available, but
// below-threshold entries are still dropped from that fallback, so the call
// can return fewer than topN results, even none.
func (e *Engine) Recommend(userIngredients []string, topN int, threshold float64) ([]types.Recommendation, error) {
	if !e.trained() {
		return nil, ErrNotTrained
	}
	if topN <= 0 {
		topN = 5
	}

	userKeys := ingredient.NormalizeAll(userIngredients)
	queryVec := e.state.Vectorizer.TransformOne(strings.Join(userKeys, " "))

	userSet := make(map[string]struct{}, len(userKeys))
	for _, k := range userKeys {
		userSet[k] = struct{}{}
	}

	// The classifier's prediction is a ranking boost, never a filter.
	predictedCategory := ""
	if e.state.Forest != nil {
		predictedCategory = e.state.Categories.Label(e.state.Forest.Predict(queryVec))
	}

	pool, vectors := e.candidatePool()

	similarities := make([]float64, len(pool))
	matchPercents := make([]float64, len(pool))
	missingCounts := make([]int, len(pool))
	maxMissing := 1
	for i, recipe := range pool {
		similarities[i] = feature.Cosine(queryVec, vectors[i])

		keys := ingredient.KeySet(recipe.Ingredients)
		if len(keys) == 0 {
			continue
		}
		matched, missing := 0, 0
		for k := range keys {
			if _, ok := userSet[k]; ok {
				matched++
			} else {
				missing++
			}
		}
		matchPercents[i] = float64(matched) / float64(len(keys)) * 100
		missingCounts[i] = missing
		if missing > maxMissing {
			maxMissing = missing
		}
	}

	scores := make([]float64, len(pool))
	for i := range pool {
		normalizedMissing := 1 - float64(missingCounts[i])/float64(maxMissing)
		scores[i] = similarityWeight*similarities[i] +
			coverageWeight*matchPercents[i]/100 +
			missingWeight*normalizedMissing
		if predictedCategory != "" && pool[i].Category == predictedCategory {
			scores[i] += categoryBoost
		}
	}

	selected := selectCandidates(scores, topN, threshold)

	results := make([]types.Recommendation, 0, len(selected))
	for _, idx := range selected {
		recipe := pool[idx]
		results = append(results, types.Recommendation{
			RecipeID:           recipe.ID,
			Name:               recipe.Name,
			Category:           recipe.Category,
			Similarity:         similarities[idx],
			MatchPercentage:    matchPercents[idx],
			MissingCount:       missingCounts[idx],
			CombinedScore:      scores[idx],
			MissingIngredients: missingLines(recipe, userSet),
			Recipe:             recipe,
		})
	}
	return results, nil
}

// candidatePool unions the two splits, training first. Pool order is the
// tie-break for equal scores.
func (e *Engine) candidatePool() ([]types.Recipe, [][]float64) {
	pool := make([]types.Recipe, 0, len(e.state.Train)+len(e.state.Holdout))
	pool = append(pool, e.state.Train...)
	pool = append(pool, e.state.Holdout...)

	vectors := make([][]float64, 0, len(pool))
	vectors = append(vectors, e.state.TrainMatrix...)
	vectors = append(vectors, e.state.HoldoutMatrix...)
	return pool, vectors
}

// selectCandidates picks result indices, best score first. Candidates at or
// above the threshold win when there are at least topN of them; otherwise
// the global best are considered instead, with below-threshold entries
// dropped in a second pass.
func selectCandidates(scores []float64, topN int, threshold float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var valid []int
	for _, idx := range order {
		if scores[idx] >= threshold {
			valid = append(valid, idx)
		}
	}

	if len(valid) >= topN {
		return valid[:topN]
	}

	// Fallback: best available regardless of threshold, then the threshold
	// filter again. Intentionally preserved as the shipped behavior even
	// though the second filter can empty the result; flagged for product
	// review rather than silently changed.
	if len(order) > topN {
		order = order[:topN]
	}
	selected := make([]int, 0, len(order))
	for _, idx := range order {
		if scores[idx] >= threshold {
			selected = append(selected, idx)
		}
	}
	return selected
}

// missingLines collects every source ingredient line whose base ingredient
// the user lacks. A recipe may list the same base ingredient more than once
// with different amounts; all such lines are included.
func missingLines(recipe types.Recipe, userSet map[string]struct{}) []types.IngredientLine {
	var missing []types.IngredientLine
	for _, line := range recipe.Ingredients {
		key := ingredient.Normalize(line.Ingredient)
		if key == "" {
			continue
		}
		if _, ok := userSet[key]; !ok {
			missing = append(missing, line)
		}
	}
	return missing
}

// Suggest returns up to max ingredient keys containing partial,
// alphabetically ascending. The search space is the full observed key set
// from load time, singletons included.
func (e *Engine) Suggest(partial string, max int) []string {
	if e == nil || e.state == nil || len(e.state.IngredientKeys) == 0 {
		return nil
	}
	if max <= 0 {
		max = 5
	}
	needle := strings.ToLower(partial)

	var suggestions []string
	for _, key := range e.state.IngredientKeys {
		if strings.Contains(key, needle) {
			suggestions = append(suggestions, key)
			if len(suggestions) >= max {
				break
			}
		}
	}
	return suggestions
}

// shuffledSplit deterministically partitions recipes into training and
// held-out splits. The input is name-sorted before the seeded shuffle so
// the split does not depend on loader iteration order.
func shuffledSplit(recipes []types.Recipe, holdoutFraction float64, seed int64) (train, holdout []types.Recipe) {
	sorted := make([]types.Recipe, len(recipes))
	copy(sorted, recipes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(sorted), func(i, j int) {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	})

	n := len(sorted)
	holdoutSize := int(float64(n)*holdoutFraction + 0.5)
	if holdoutSize >= n {
		holdoutSize = n - 1
	}
	if holdoutSize < 0 {
		holdoutSize = 0
	}
	return sorted[:n-holdoutSize], sorted[n-holdoutSize:]
}

// logf writes one progress line when a writer is present.
func logf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format+"\n", args...)
	}
}
