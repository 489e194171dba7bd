// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"io"
	"testing"

	"github.com/pdiddy/recipe-engine/internal/corpus"
	"github.com/pdiddy/recipe-engine/internal/model"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// memLoader serves a fixed corpus without any backing store.
type memLoader struct {
	recipes []types.Recipe
	err     error
}

func (l *memLoader) Load(ctx context.Context) (*corpus.LoadResult, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &corpus.LoadResult{
		Recipes: l.recipes,
		Stats:   corpus.Stats{Records: len(l.recipes)},
	}, nil
}

func lines(names ...string) []types.IngredientLine {
	out := make([]types.IngredientLine, len(names))
	for i, n := range names {
		out[i] = types.IngredientLine{Ingredient: n, Amount: types.Number(1)}
	}
	return out
}

// threeRecipeEngine trains on the canonical pastry/meat/other corpus with no
// held-out split, so all three recipes are candidates and the vocabulary is
// fit on all of them.
func threeRecipeEngine(t *testing.T) *Engine {
	t.Helper()
	loader := &memLoader{recipes: []types.Recipe{
		{ID: "r1", Name: "Pancake", Category: "pastry", Ingredients: lines("flour", "eggs")},
		{ID: "r2", Name: "Roast Chicken", Category: "meat", Ingredients: lines("chicken", "salt")},
		{ID: "r3", Name: "Dough", Category: "other", Ingredients: lines("flour", "salt")},
	}}
	engine, err := Train(context.Background(), loader, types.TrainingConfig{
		HoldoutFraction: 0.01, // keeps all three recipes in the training split
		Seed:            42,
		MinDocFreq:      2,
		Trees:           25,
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestRecommendEndToEnd(t *testing.T) {
	engine := threeRecipeEngine(t)

	recs, err := engine.Recommend([]string{"flour", "eggs"}, 2, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}

	// Full coverage beats half coverage, and any ingredient overlap beats
	// none: Pancake (100%) over Dough (50%), Roast Chicken absent.
	if recs[0].Name != "Pancake" || recs[1].Name != "Dough" {
		t.Fatalf("wrong order: %s, %s", recs[0].Name, recs[1].Name)
	}
	if recs[0].MatchPercentage != 100 {
		t.Fatalf("Pancake match = %.1f, want 100", recs[0].MatchPercentage)
	}
	if recs[1].MatchPercentage != 50 {
		t.Fatalf("Dough match = %.1f, want 50", recs[1].MatchPercentage)
	}
	if recs[0].CombinedScore <= recs[1].CombinedScore {
		t.Fatalf("scores not descending: %.3f, %.3f", recs[0].CombinedScore, recs[1].CombinedScore)
	}

	// Dough is missing exactly its salt line.
	if recs[1].MissingCount != 1 || len(recs[1].MissingIngredients) != 1 {
		t.Fatalf("Dough missing = %d lines %d", recs[1].MissingCount, len(recs[1].MissingIngredients))
	}
	if recs[1].MissingIngredients[0].Ingredient != "salt" {
		t.Fatalf("missing ingredient %q, want salt", recs[1].MissingIngredients[0].Ingredient)
	}
}

func TestRecommendSimilarityBounds(t *testing.T) {
	engine := threeRecipeEngine(t)

	for _, query := range [][]string{
		{"flour"}, {"salt", "chicken"}, {"caviar"}, {"flour", "eggs", "salt", "chicken"},
	} {
		recs, err := engine.Recommend(query, 3, 0)
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range recs {
			if r.Similarity < 0 || r.Similarity > 1 {
				t.Fatalf("similarity %f out of bounds for query %v", r.Similarity, query)
			}
		}
	}
}

func TestRecommendThresholdContract(t *testing.T) {
	engine := threeRecipeEngine(t)

	recs, err := engine.Recommend([]string{"flour", "salt"}, 2, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d results, want exactly top_n", len(recs))
	}
	for i, r := range recs {
		if r.CombinedScore < 0.2 {
			t.Fatalf("result %d below threshold: %.3f", i, r.CombinedScore)
		}
		if i > 0 && recs[i-1].CombinedScore < r.CombinedScore {
			t.Fatal("results not sorted descending")
		}
	}
}

// The fallback branch re-applies the threshold, so a query where nothing
// scores well returns fewer than top_n results, possibly none. Shipped
// behavior, preserved deliberately.
func TestRecommendFallbackBelowThreshold(t *testing.T) {
	engine := threeRecipeEngine(t)

	recs, err := engine.Recommend([]string{"caviar"}, 2, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d results, want 0 when every fallback candidate is below threshold", len(recs))
	}
}

func TestRecommendMissingCompleteness(t *testing.T) {
	engine := threeRecipeEngine(t)

	userSet := map[string]struct{}{"flour": {}, "eggs": {}}
	recs, err := engine.Recommend([]string{"flour", "eggs"}, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) == 0 {
		t.Fatal("no results")
	}

	for _, rec := range recs {
		missingKeys := map[string]struct{}{}
		for _, line := range rec.MissingIngredients {
			missingKeys[line.Ingredient] = struct{}{}
		}
		// Every recipe ingredient is either in the user's set or reported
		// missing, and nothing reported missing is in the user's set.
		for _, line := range rec.Recipe.Ingredients {
			_, has := userSet[line.Ingredient]
			_, missing := missingKeys[line.Ingredient]
			if has == missing {
				t.Fatalf("%s: ingredient %q has=%v missing=%v", rec.Name, line.Ingredient, has, missing)
			}
		}
	}
}

func TestRecommendCategoryBoostBeforeSelection(t *testing.T) {
	// Two identical-score candidates in different categories: the boost must
	// decide the ranking, which requires it to land before selection.
	loader := &memLoader{recipes: []types.Recipe{
		{ID: "a", Name: "Flour Cake", Category: "pastry", Ingredients: lines("flour", "sugar")},
		{ID: "b", Name: "Flour Bake", Category: "pastry", Ingredients: lines("flour", "sugar")},
		{ID: "c", Name: "Flour Stew", Category: "stew", Ingredients: lines("flour", "broth")},
		{ID: "d", Name: "Sugar Stew", Category: "stew", Ingredients: lines("sugar", "broth")},
	}}
	engine, err := Train(context.Background(), loader, types.TrainingConfig{
		HoldoutFraction: 0.01, Seed: 42, MinDocFreq: 2, Trees: 25,
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	recs, err := engine.Recommend([]string{"flour", "sugar"}, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) == 0 {
		t.Fatal("no results")
	}

	// Whatever category the classifier predicts, boosted candidates carry a
	// score above the unboosted blend maximum of their signals, and the
	// boost is visible in the returned scores (i.e. applied pre-selection).
	boosted := 0
	for _, r := range recs {
		if r.CombinedScore > 1.0 {
			boosted++
			if r.Category == "" {
				t.Fatalf("%s scored %.3f with no category", r.Name, r.CombinedScore)
			}
		}
	}
	if boosted == 0 {
		t.Fatal("no candidate carries the category boost")
	}
}

func TestRecommendScoreMonotonicity(t *testing.T) {
	// All recipes share one category, so the classifier boost is uniform
	// and the ranking is driven by the blend alone: more covered
	// ingredients and fewer missing ones always score higher.
	loader := &memLoader{recipes: []types.Recipe{
		{ID: "r1", Name: "Full", Category: "pastry", Ingredients: lines("flour", "eggs", "milk")},
		{ID: "r2", Name: "TwoOfThree", Category: "pastry", Ingredients: lines("flour", "eggs", "salt")},
		{ID: "r3", Name: "OneOfThree", Category: "pastry", Ingredients: lines("flour", "salt", "pepper")},
		{ID: "r4", Name: "NoOverlap", Category: "pastry", Ingredients: lines("salt", "pepper", "water")},
	}}
	engine, err := Train(context.Background(), loader, types.TrainingConfig{
		HoldoutFraction: 0.01,
		Seed:            42,
		MinDocFreq:      2,
		Trees:           25,
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	recs, err := engine.Recommend([]string{"flour", "eggs", "milk"}, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("got %d recommendations, want 4", len(recs))
	}

	wantOrder := []string{"Full", "TwoOfThree", "OneOfThree", "NoOverlap"}
	for i, want := range wantOrder {
		if recs[i].Name != want {
			t.Fatalf("rank %d is %s, want %s", i+1, recs[i].Name, want)
		}
	}
	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1], recs[i]
		if cur.CombinedScore >= prev.CombinedScore {
			t.Fatalf("%s score %.3f not below %s score %.3f",
				cur.Name, cur.CombinedScore, prev.Name, prev.CombinedScore)
		}
		if cur.MatchPercentage > prev.MatchPercentage {
			t.Fatalf("%s match %.1f above %s match %.1f",
				cur.Name, cur.MatchPercentage, prev.Name, prev.MatchPercentage)
		}
		if cur.MissingCount < prev.MissingCount {
			t.Fatalf("%s missing %d below %s missing %d",
				cur.Name, cur.MissingCount, prev.Name, prev.MissingCount)
		}
	}
}

func TestRecommendNotTrained(t *testing.T) {
	engine := New(&model.State{})
	if _, err := engine.Recommend([]string{"flour"}, 5, DefaultThreshold); err != ErrNotTrained {
		t.Fatalf("got %v, want ErrNotTrained", err)
	}
}

func TestRecommendZeroIngredientRecipe(t *testing.T) {
	loader := &memLoader{recipes: []types.Recipe{
		{ID: "r1", Name: "Empty", Category: "other"},
		{ID: "r2", Name: "Bread", Category: "pastry", Ingredients: lines("flour", "water")},
		{ID: "r3", Name: "Flatbread", Category: "pastry", Ingredients: lines("flour", "water")},
	}}
	engine, err := Train(context.Background(), loader, types.TrainingConfig{
		HoldoutFraction: 0.01, Seed: 42, MinDocFreq: 2, Trees: 10,
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	recs, err := engine.Recommend([]string{"flour"}, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		if r.Name == "Empty" && r.MatchPercentage != 0 {
			t.Fatalf("zero-ingredient recipe has match %.1f, want 0", r.MatchPercentage)
		}
	}
}

func TestSuggest(t *testing.T) {
	engine := New(&model.State{
		IngredientKeys: []string{"butter", "egg", "eggplant"},
	})

	got := engine.Suggest("egg", 5)
	if len(got) != 2 || got[0] != "egg" || got[1] != "eggplant" {
		t.Fatalf("Suggest(egg) = %v", got)
	}

	if got := engine.Suggest("EGG", 1); len(got) != 1 || got[0] != "egg" {
		t.Fatalf("case-insensitive truncated suggest = %v", got)
	}

	if got := engine.Suggest("zz", 5); len(got) != 0 {
		t.Fatalf("Suggest(zz) = %v, want none", got)
	}
}

func TestSuggestIncludesSingletons(t *testing.T) {
	// saffron appears in a single recipe: excluded from the TF-IDF
	// vocabulary, still suggestable.
	loader := &memLoader{recipes: []types.Recipe{
		{ID: "r1", Name: "A", Category: "x", Ingredients: lines("flour", "saffron")},
		{ID: "r2", Name: "B", Category: "x", Ingredients: lines("flour", "salt")},
		{ID: "r3", Name: "C", Category: "y", Ingredients: lines("flour", "salt")},
	}}
	engine, err := Train(context.Background(), loader, types.TrainingConfig{
		HoldoutFraction: 0.01, Seed: 42, MinDocFreq: 2, Trees: 10,
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	got := engine.Suggest("saf", 5)
	if len(got) != 1 || got[0] != "saffron" {
		t.Fatalf("Suggest(saf) = %v", got)
	}
}

func TestTrainEmptyCorpus(t *testing.T) {
	_, err := Train(context.Background(), &memLoader{}, types.TrainingConfig{}, io.Discard)
	if err != corpus.ErrNoRecipes {
		t.Fatalf("got %v, want ErrNoRecipes", err)
	}
}

func TestTrainSplitsAreDisjoint(t *testing.T) {
	var recipes []types.Recipe
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for i, n := range names {
		recipes = append(recipes, types.Recipe{
			ID: n, Name: n, Category: "x",
			Ingredients: lines("flour", "salt", names[i]),
		})
	}
	engine, err := Train(context.Background(), &memLoader{recipes: recipes}, types.TrainingConfig{}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	state := engine.Snapshot()
	if len(state.Holdout) != 2 || len(state.Train) != 8 {
		t.Fatalf("split sizes %d/%d, want 8/2", len(state.Train), len(state.Holdout))
	}

	seen := map[string]struct{}{}
	for _, r := range append(append([]types.Recipe{}, state.Train...), state.Holdout...) {
		if _, dup := seen[r.ID]; dup {
			t.Fatalf("recipe %s appears in both splits", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	if len(seen) != len(recipes) {
		t.Fatalf("splits cover %d recipes, want %d", len(seen), len(recipes))
	}
}

func TestModelRoundTripReproducesRecommendations(t *testing.T) {
	engine := threeRecipeEngine(t)

	blob, err := model.Save(engine.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	state, err := model.Load(blob)
	if err != nil {
		t.Fatal(err)
	}
	restored := New(state)

	query := []string{"flour", "eggs"}
	want, err := engine.Recommend(query, 3, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := restored.Recommend(query, 3, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != len(want) {
		t.Fatalf("restored engine returned %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].RecipeID != want[i].RecipeID ||
			got[i].CombinedScore != want[i].CombinedScore ||
			got[i].Similarity != want[i].Similarity {
			t.Fatalf("result %d differs after round trip:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}

	if sugg := restored.Suggest("fl", 3); len(sugg) != 1 || sugg[0] != "flour" {
		t.Fatalf("restored Suggest(fl) = %v", sugg)
	}
}
