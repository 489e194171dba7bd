// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model persists trained engine state as an opaque blob. The blob
// is a compatibility contract only in its logical field set: every field of
// State must survive a save/load cycle bit-for-bit in value.
package model

import (
	"github.com/pdiddy/recipe-engine/internal/classify"
	"github.com/pdiddy/recipe-engine/internal/feature"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// State is everything one training pass produces. It is owned by exactly
// one engine instance, never mutated after training, and holds no live
// connection handles: loaders acquire and release their own.
type State struct {
	// Vectorizer is the frozen vocabulary with IDF weights.
	Vectorizer *feature.Vectorizer

	// Forest is the trained category classifier.
	Forest *classify.Forest

	// Categories maps labels to dense ids, fixed at training time.
	Categories *classify.CategoryMap

	// Train and Holdout are the two corpus splits; a recipe appears in
	// exactly one.
	Train   []types.Recipe
	Holdout []types.Recipe

	// TrainMatrix and HoldoutMatrix are the TF-IDF vectors row-aligned
	// with the splits.
	TrainMatrix   [][]float64
	HoldoutMatrix [][]float64

	// IngredientKeys is the sorted full set of base ingredient keys
	// observed at load time, singletons included. Suggestions search this,
	// not the TF-IDF vocabulary.
	IngredientKeys []string

	// Metrics is the held-out evaluation report.
	Metrics types.EvaluationMetrics
}
