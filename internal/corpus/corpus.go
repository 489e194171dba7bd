// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads raw recipe records from a backing store. Loaders own
// their connections for the duration of one Load call and release them
// before returning; the trained engine state never holds a live handle.
//
// Malformed records are isolated: each produces a ParseError in the load
// stats and the batch continues. Only structural failures (an unreachable
// store, zero usable records downstream) abort.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/recipe-engine/internal/ingredient"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// ErrNoRecipes signals an empty corpus: nothing to train on.
var ErrNoRecipes = errors.New("no recipes in corpus")

// ParseError is a single malformed record, skipped and tallied.
type ParseError struct {
	Source string
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: skipping record %s: %v", e.Source, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Stats tallies one load pass.
type Stats struct {
	// Records is the count of usable recipes returned.
	Records int
	// Skipped is the count of malformed records dropped.
	Skipped int
}

// LoadResult carries the loaded recipes plus the per-record failure tally.
type LoadResult struct {
	Recipes []types.Recipe
	Stats   Stats
	// Failures holds one ParseError per skipped record.
	Failures []*ParseError
}

func (r *LoadResult) skip(source, record string, err error) {
	r.Stats.Skipped++
	r.Failures = append(r.Failures, &ParseError{Source: source, Record: record, Err: err})
}

func (r *LoadResult) keep(recipe types.Recipe) {
	r.Recipes = append(r.Recipes, recipe)
	r.Stats.Records++
}

// Loader supplies raw recipe records to the training pipeline.
type Loader interface {
	Load(ctx context.Context) (*LoadResult, error)
}

// rawIngredient is an ingredient line as stored: amount may be a number or
// free text.
type rawIngredient struct {
	Ingredient string       `json:"ingredient" bson:"ingredient"`
	Amount     types.Amount `json:"amount" bson:"amount"`
	Unit       string       `json:"unit" bson:"unit"`
}

// rawRecord is a recipe as stored.
type rawRecord struct {
	Name            string          `json:"name" bson:"name"`
	Category        string          `json:"category,omitempty" bson:"category,omitempty"`
	Ingredients     []rawIngredient `json:"ingredients" bson:"ingredients"`
	PrepTimeMinutes int             `json:"prep_time_minutes,omitempty" bson:"prep_time_minutes,omitempty"`
}

// toRecipe validates a raw record and converts it. Lines without an
// ingredient name are dropped; string amounts that turn out to be numeric
// ("1½", "1-2") are salvaged.
func (r rawRecord) toRecipe(id string) (types.Recipe, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return types.Recipe{}, errors.New("record has no name")
	}

	lines := make([]types.IngredientLine, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Ingredient) == "" {
			continue
		}
		amount := ing.Amount
		if !amount.Valid && amount.Text != "" {
			amount = ingredient.ParseAmount(amount.Text)
		}
		lines = append(lines, types.IngredientLine{
			Ingredient: ing.Ingredient,
			Amount:     amount,
			Unit:       ing.Unit,
		})
	}

	return types.Recipe{
		ID:              id,
		Name:            name,
		Category:        strings.TrimSpace(r.Category),
		Ingredients:     lines,
		PrepTimeMinutes: r.PrepTimeMinutes,
	}, nil
}
