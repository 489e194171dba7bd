// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// SQLiteLoader reads recipes from a local SQLite database. The connection
// lives only for the duration of Load.
type SQLiteLoader struct {
	Path string
}

// Load opens the database, reads every row of the recipes table and closes
// the connection before returning. Rows with unreadable ingredient JSON are
// tallied and skipped.
func (l *SQLiteLoader) Load(ctx context.Context) (*LoadResult, error) {
	db, err := sql.Open("sqlite3", l.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening recipe database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, category, ingredients, prep_time_minutes FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer rows.Close()

	result := &LoadResult{}
	for rows.Next() {
		var (
			id, name        string
			category        sql.NullString
			ingredientsJSON string
			prepTime        sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &category, &ingredientsJSON, &prepTime); err != nil {
			return nil, fmt.Errorf("scanning recipe row: %w", err)
		}

		raw := rawRecord{
			Name:            name,
			Category:        category.String,
			PrepTimeMinutes: int(prepTime.Int64),
		}
		if err := json.Unmarshal([]byte(ingredientsJSON), &raw.Ingredients); err != nil {
			result.skip(l.Path, id, fmt.Errorf("ingredients column: %w", err))
			continue
		}
		recipe, err := raw.toRecipe(id)
		if err != nil {
			result.skip(l.Path, id, err)
			continue
		}
		result.keep(recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recipe rows: %w", err)
	}
	return result, nil
}

// Store writes recipes into a SQLite database, creating the schema on first
// use. It backs local fixtures and small corpora; it is not a bulk importer.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the recipe database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening recipe database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		ingredients TEXT NOT NULL,
		prep_time_minutes INTEGER
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating recipes schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Put inserts or replaces one recipe.
func (s *Store) Put(ctx context.Context, recipe types.Recipe) error {
	lines := make([]rawIngredient, 0, len(recipe.Ingredients))
	for _, l := range recipe.Ingredients {
		lines = append(lines, rawIngredient{
			Ingredient: l.Ingredient,
			Amount:     l.Amount,
			Unit:       l.Unit,
		})
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO recipes (id, name, category, ingredients, prep_time_minutes)
		 VALUES (?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Name, recipe.Category, string(data), recipe.PrepTimeMinutes)
	if err != nil {
		return fmt.Errorf("storing recipe %s: %w", recipe.ID, err)
	}
	return nil
}
