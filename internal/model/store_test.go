// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/recipe-engine/internal/classify"
	"github.com/pdiddy/recipe-engine/internal/feature"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

func sampleState(t *testing.T) *State {
	t.Helper()

	vectorizer := feature.NewVectorizer(2)
	matrix, err := vectorizer.Fit([]string{"mehl zucker", "mehl salz", "zucker salz"})
	require.NoError(t, err)

	forest, err := classify.TrainForest(matrix, []int{0, 1, 1}, 5, 42)
	require.NoError(t, err)

	return &State{
		Vectorizer: vectorizer,
		Forest:     forest,
		Categories: classify.NewCategoryMap([]string{"Pastry", "Other", "Other"}),
		Train: []types.Recipe{
			{ID: "r1", Name: "Kuchen", Category: "Pastry", CategoryID: 1,
				Ingredients: []types.IngredientLine{{Ingredient: "Mehl", Amount: types.Number(200), Unit: "g"}}},
			{ID: "r2", Name: "Teig", Category: "Other",
				Ingredients: []types.IngredientLine{{Ingredient: "Salz", Amount: types.Unparsed("etwas")}}},
		},
		Holdout: []types.Recipe{
			{ID: "r3", Name: "Brot", Category: "Other"},
		},
		TrainMatrix:    matrix[:2],
		HoldoutMatrix:  matrix[2:],
		IngredientKeys: []string{"mehl", "salz", "zucker"},
		Metrics: types.EvaluationMetrics{
			Accuracy: 0.75, F1: 0.7,
			TopTerms: []types.TermImportance{{Term: "mehl", Importance: 0.6}},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	state := sampleState(t)

	blob, err := Save(state)
	require.NoError(t, err)

	got, err := Load(blob)
	require.NoError(t, err)

	// Every logical field survives in value.
	assert.Equal(t, state.Vectorizer.Vocabulary, got.Vectorizer.Vocabulary)
	assert.Equal(t, state.Vectorizer.IDF, got.Vectorizer.IDF)
	assert.Equal(t, state.Categories.Labels, got.Categories.Labels)
	assert.Equal(t, state.Train, got.Train)
	assert.Equal(t, state.Holdout, got.Holdout)
	assert.Equal(t, state.TrainMatrix, got.TrainMatrix)
	assert.Equal(t, state.HoldoutMatrix, got.HoldoutMatrix)
	assert.Equal(t, state.IngredientKeys, got.IngredientKeys)
	assert.Equal(t, state.Metrics, got.Metrics)

	// The classifier predicts identically after the round trip.
	probe := [][]float64{{0.9, 0, 0.1}, {0, 0.9, 0.1}, {0.3, 0.3, 0.3}}
	assert.Equal(t, state.Forest.PredictAll(probe), got.Forest.PredictAll(probe))
}

func TestSaveNil(t *testing.T) {
	_, err := Save(nil)
	var pe *PersistenceError
	assert.ErrorAs(t, err, &pe)
}

func TestLoadCorruptBlob(t *testing.T) {
	_, err := Load([]byte("not a model"))
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
}

func TestFileRoundTrip(t *testing.T) {
	state := sampleState(t)
	path := filepath.Join(t.TempDir(), "models", "recipe-engine.gob")

	require.NoError(t, SaveFile(state, path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, state.IngredientKeys, got.IngredientKeys)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.gob"))
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.True(t, errors.Is(pe.Err, os.ErrNotExist))
}

func TestLoadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gob")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := LoadFile(path)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
}
