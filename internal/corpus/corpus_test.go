// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

const sampleJSONL = `{"name": "Pfannkuchen", "ingredients": [{"amount": 200, "unit": "g", "ingredient": "Mehl"}, {"amount": "1½", "unit": "dl", "ingredient": "Milch"}], "prep_time_minutes": 25}
{"name": "Brathuhn", "category": "Fleischgerichte", "ingredients": [{"amount": 1, "unit": "", "ingredient": "Huhn"}, {"amount": "nach Belieben", "unit": "", "ingredient": "Salz"}]}

{"name": "", "ingredients": []}
{not json at all}
{"name": "Salzteig", "ingredients": [{"amount": 1, "unit": "EL", "ingredient": ""}]}
`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestJSONLLoader(t *testing.T) {
	loader := &JSONLLoader{Path: writeCorpus(t, sampleJSONL)}
	result, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Three usable records; the nameless record and the malformed line are
	// tallied, never fatal. Blank lines are invisible.
	if result.Stats.Records != 3 {
		t.Fatalf("got %d records, want 3", result.Stats.Records)
	}
	if result.Stats.Skipped != 2 {
		t.Fatalf("got %d skipped, want 2", result.Stats.Skipped)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(result.Failures))
	}

	pfannkuchen := result.Recipes[0]
	if pfannkuchen.Name != "Pfannkuchen" {
		t.Fatalf("unexpected first recipe %q", pfannkuchen.Name)
	}
	if pfannkuchen.PrepTimeMinutes != 25 {
		t.Fatalf("prep time not carried: %d", pfannkuchen.PrepTimeMinutes)
	}

	// Numeric amounts decode as numbers; "1½" is salvaged to 1.5.
	if !pfannkuchen.Ingredients[0].Amount.Valid || pfannkuchen.Ingredients[0].Amount.Value != 200 {
		t.Fatalf("amount not numeric: %+v", pfannkuchen.Ingredients[0].Amount)
	}
	if !pfannkuchen.Ingredients[1].Amount.Valid || pfannkuchen.Ingredients[1].Amount.Value != 1.5 {
		t.Fatalf("fraction amount not salvaged: %+v", pfannkuchen.Ingredients[1].Amount)
	}

	// Unparseable amounts keep their text.
	brathuhn := result.Recipes[1]
	if brathuhn.Ingredients[1].Amount.Valid || brathuhn.Ingredients[1].Amount.Text != "nach Belieben" {
		t.Fatalf("text amount mangled: %+v", brathuhn.Ingredients[1].Amount)
	}
	if brathuhn.Category != "Fleischgerichte" {
		t.Fatalf("category not carried: %q", brathuhn.Category)
	}

	// Lines without an ingredient name are dropped inside the recipe.
	if len(result.Recipes[2].Ingredients) != 0 {
		t.Fatalf("empty-name ingredient kept: %+v", result.Recipes[2].Ingredients)
	}

	// Ids are stable across loads of the same file.
	again, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i := range result.Recipes {
		if result.Recipes[i].ID != again.Recipes[i].ID {
			t.Fatalf("unstable id at %d: %s vs %s", i, result.Recipes[i].ID, again.Recipes[i].ID)
		}
	}
}

func TestJSONLLoaderMissingFile(t *testing.T) {
	loader := &JSONLLoader{Path: filepath.Join(t.TempDir(), "nope.jsonl")}
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	recipes := []types.Recipe{
		{
			ID:       "r1",
			Name:     "Zopf",
			Category: "Gebäck",
			Ingredients: []types.IngredientLine{
				{Ingredient: "Mehl", Amount: types.Number(500), Unit: "g"},
				{Ingredient: "Butter, weich", Amount: types.Number(60), Unit: "g"},
			},
			PrepTimeMinutes: 240,
		},
		{
			ID:   "r2",
			Name: "Gemüsesuppe",
			Ingredients: []types.IngredientLine{
				{Ingredient: "Gemüse (gemischt)", Amount: types.Unparsed("nach Belieben")},
			},
		},
	}
	for _, r := range recipes {
		if err := store.Put(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	result, err := (&SQLiteLoader{Path: path}).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.Records != 2 || result.Stats.Skipped != 0 {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}

	got := result.Recipes[0]
	if got.ID != "r1" || got.Name != "Zopf" || got.Category != "Gebäck" {
		t.Fatalf("recipe fields lost: %+v", got)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[0].Amount.Value != 500 {
		t.Fatalf("ingredients lost: %+v", got.Ingredients)
	}
	if got.PrepTimeMinutes != 240 {
		t.Fatalf("prep time lost: %d", got.PrepTimeMinutes)
	}

	if result.Recipes[1].Ingredients[0].Amount.Valid {
		t.Fatalf("text amount became numeric: %+v", result.Recipes[1].Ingredients[0].Amount)
	}
}

func TestBSONAmount(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		valid bool
		value float64
		text  string
	}{
		{"float", 2.5, true, 2.5, ""},
		{"int32", int32(3), true, 3, ""},
		{"int64", int64(4), true, 4, ""},
		{"numeric string", "1-2", true, 1.5, ""},
		{"free text", "etwas", false, 0, "etwas"},
		{"nil", nil, false, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bsonAmount(tt.in)
			if got.Valid != tt.valid || got.Value != tt.value || got.Text != tt.text {
				t.Fatalf("bsonAmount(%v) = %+v", tt.in, got)
			}
		})
	}
}
