// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared across the pipeline stages:
// recipes as loaded from a corpus, recommendation results returned to
// callers, evaluation metrics, and per-stage configuration.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is an ingredient quantity. Corpus records carry either a number or
// free text (e.g. "nach Belieben"); an Amount preserves whichever it was
// given. Valid reports whether Value holds a usable number.
type Amount struct {
	Value float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Text  string  `json:"text,omitempty" yaml:"text,omitempty"`
	Valid bool    `json:"valid" yaml:"valid"`
}

// Number returns an Amount holding a numeric value.
func Number(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// Unparsed returns an Amount that keeps the original text.
func Unparsed(text string) Amount {
	return Amount{Text: text}
}

// String renders the amount the way a recipe card would.
func (a Amount) String() string {
	if a.Valid {
		return strconv.FormatFloat(a.Value, 'f', -1, 64)
	}
	return a.Text
}

// MarshalJSON emits a JSON number for numeric amounts and a string otherwise,
// matching the line-delimited corpus format.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Valid {
		return json.Marshal(a.Value)
	}
	return json.Marshal(a.Text)
}

// UnmarshalJSON accepts a number, a string, or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = Amount{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*a = Amount{Value: v, Valid: true}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("amount is neither number nor string: %s", s)
	}
	*a = Amount{Text: text}
	return nil
}

// IngredientLine is one row of a recipe's ingredient list. It is never
// mutated after the recipe is loaded.
type IngredientLine struct {
	Ingredient string `json:"ingredient" yaml:"ingredient"`
	Amount     Amount `json:"amount" yaml:"amount"`
	Unit       string `json:"unit" yaml:"unit"`
}

// Recipe is one corpus record. Category and the derived fields are assigned
// once during training preprocessing; a recipe belongs to exactly one of the
// training or held-out splits.
type Recipe struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	Ingredients []IngredientLine `json:"ingredients" yaml:"ingredients"`

	// PrepTimeMinutes is optional corpus metadata, zero when absent.
	PrepTimeMinutes int `json:"prep_time_minutes,omitempty" yaml:"prep_time_minutes,omitempty"`

	// IngredientsText is the space-joined normalized base ingredients in
	// source order, duplicates preserved. Derived during preprocessing.
	IngredientsText string `json:"ingredients_text,omitempty" yaml:"ingredients_text,omitempty"`

	// CategoryID is the dense index of Category in the trained category map.
	CategoryID int `json:"category_id,omitempty" yaml:"category_id,omitempty"`
}

// Recommendation is one ranked result from the engine. Ephemeral: computed
// per query, never persisted.
type Recommendation struct {
	RecipeID string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`

	// Similarity is the cosine similarity between the query vector and the
	// recipe's TF-IDF vector, in [0,1].
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// MatchPercentage is the share of the recipe's ingredients the user
	// already has, 0-100.
	MatchPercentage float64 `json:"match_percentage" yaml:"match_percentage"`

	// MissingCount is how many of the recipe's base ingredients the user
	// lacks.
	MissingCount int `json:"missing_ingredient_count" yaml:"missing_ingredient_count"`

	// CombinedScore blends similarity, match percentage and missing count;
	// the category boost can push it above 1.
	CombinedScore float64 `json:"combined_score" yaml:"combined_score"`

	// MissingIngredients lists every source ingredient line whose base
	// ingredient the user lacks, amounts and units intact.
	MissingIngredients []IngredientLine `json:"missing_ingredients" yaml:"missing_ingredients"`

	// Recipe is the full recipe payload.
	Recipe Recipe `json:"full_recipe" yaml:"full_recipe"`
}

// EvaluationMetrics reports classifier quality on the held-out split.
// Diagnostic output only; the engine does not consult it at query time.
type EvaluationMetrics struct {
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`

	// TopTerms lists the highest-importance vocabulary terms, best first.
	TopTerms []TermImportance `json:"top_terms" yaml:"top_terms"`

	TrainingRecipes int `json:"training_recipes" yaml:"training_recipes"`
	HeldOutRecipes  int `json:"held_out_recipes" yaml:"held_out_recipes"`
}

// TermImportance pairs a vocabulary term with its classifier importance.
type TermImportance struct {
	Term       string  `json:"term" yaml:"term"`
	Importance float64 `json:"importance" yaml:"importance"`
}
