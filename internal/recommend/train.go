// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/recipe-engine/internal/classify"
	"github.com/pdiddy/recipe-engine/internal/corpus"
	"github.com/pdiddy/recipe-engine/internal/feature"
	"github.com/pdiddy/recipe-engine/internal/ingredient"
	"github.com/pdiddy/recipe-engine/internal/model"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// Train runs the whole training pipeline: load, normalize, categorize,
// split, vectorize, fit the classifier, evaluate. It returns a query-ready
// engine or fails outright; there is no partial state and no resumption.
// Progress and per-record load warnings go to w (nil discards them).
func Train(ctx context.Context, loader corpus.Loader, cfg types.TrainingConfig, w io.Writer) (*Engine, error) {
	cfg = cfg.WithDefaults()

	loaded, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	for _, failure := range loaded.Failures {
		logf(w, "warning: %v", failure)
	}
	if len(loaded.Recipes) == 0 {
		return nil, corpus.ErrNoRecipes
	}
	logf(w, "Loaded %d recipes (%d skipped)", loaded.Stats.Records, loaded.Stats.Skipped)

	recipes, ingredientKeys := preprocess(loaded.Recipes)
	logf(w, "Observed %d distinct base ingredients", len(ingredientKeys))

	categories := assignCategories(recipes)
	logf(w, "Categories: %v", categories.Labels)

	train, holdout := shuffledSplit(recipes, cfg.HoldoutFraction, cfg.Seed)
	logf(w, "Split corpus into %d training and %d held-out recipes", len(train), len(holdout))

	vectorizer := feature.NewVectorizer(cfg.MinDocFreq)
	trainMatrix, err := vectorizer.Fit(texts(train))
	if err != nil {
		return nil, fmt.Errorf("fitting vectorizer: %w", err)
	}
	holdoutMatrix := vectorizer.Transform(texts(holdout))

	forest, err := classify.TrainForest(trainMatrix, labels(train), cfg.Trees, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("training classifier: %w", err)
	}

	metrics := evaluate(forest, vectorizer, holdoutMatrix, labels(holdout))
	metrics.TrainingRecipes = len(train)
	metrics.HeldOutRecipes = len(holdout)
	logf(w, "Classifier evaluation: accuracy %.2f, F1 %.2f", metrics.Accuracy, metrics.F1)

	return New(&model.State{
		Vectorizer:     vectorizer,
		Forest:         forest,
		Categories:     categories,
		Train:          train,
		Holdout:        holdout,
		TrainMatrix:    trainMatrix,
		HoldoutMatrix:  holdoutMatrix,
		IngredientKeys: ingredientKeys,
		Metrics:        metrics,
	}), nil
}

// preprocess derives each recipe's ingredients text and collects the full
// observed key set, singletons included, across the whole corpus.
func preprocess(recipes []types.Recipe) ([]types.Recipe, []string) {
	out := make([]types.Recipe, len(recipes))
	keySet := make(map[string]struct{})
	for i, r := range recipes {
		r.IngredientsText = ingredient.Text(r.Ingredients)
		for key := range ingredient.KeySet(r.Ingredients) {
			keySet[key] = struct{}{}
		}
		out[i] = r
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return out, keys
}

// assignCategories fills in category labels and derives the category map.
// A corpus with no labels at all gets them synthesized from ingredient
// keywords; a partially labeled corpus has its blanks filed under Other.
func assignCategories(recipes []types.Recipe) *classify.CategoryMap {
	anyLabeled := false
	for _, r := range recipes {
		if r.Category != "" {
			anyLabeled = true
			break
		}
	}

	labels := make([]string, len(recipes))
	for i := range recipes {
		if recipes[i].Category == "" {
			if anyLabeled {
				recipes[i].Category = classify.CategoryOther
			} else {
				recipes[i].Category = classify.AssignCategory(recipes[i].IngredientsText)
			}
		}
		labels[i] = recipes[i].Category
	}

	categories := classify.NewCategoryMap(labels)
	for i := range recipes {
		recipes[i].CategoryID = categories.ID(recipes[i].Category)
	}
	return categories
}

func texts(recipes []types.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.IngredientsText
	}
	return out
}

func labels(recipes []types.Recipe) []int {
	out := make([]int, len(recipes))
	for i, r := range recipes {
		out[i] = r.CategoryID
	}
	return out
}

// evaluate scores the classifier on the held-out split and attaches the
// ten highest-importance vocabulary terms. Diagnostics only; query-time
// behavior does not depend on it.
func evaluate(forest *classify.Forest, vectorizer *feature.Vectorizer, holdoutMatrix [][]float64, holdoutLabels []int) types.EvaluationMetrics {
	var metrics types.EvaluationMetrics
	if len(holdoutMatrix) > 0 {
		metrics = classify.Evaluate(holdoutLabels, forest.PredictAll(holdoutMatrix), forest.NumClasses)
	}
	metrics.TopTerms = classify.TopTerms(vectorizer.Terms(), forest.FeatureImportance, 10)
	return metrics
}
