// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pdiddy/recipe-engine/internal/ingredient"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

// MongoLoader reads recipes from a MongoDB collection. The client connects
// inside Load and disconnects before returning, so no live handle outlives
// the call.
type MongoLoader struct {
	URI        string
	Database   string
	Collection string
}

// mongoIngredient decodes an ingredient document; amount arrives as
// whatever BSON type the harvester stored.
type mongoIngredient struct {
	Ingredient string `bson:"ingredient"`
	Amount     any    `bson:"amount"`
	Unit       string `bson:"unit"`
}

type mongoRecord struct {
	ID              primitive.ObjectID `bson:"_id"`
	Name            string             `bson:"name"`
	Category        string             `bson:"category,omitempty"`
	Ingredients     []mongoIngredient  `bson:"ingredients"`
	PrepTimeMinutes int                `bson:"prep_time_minutes,omitempty"`
}

// Load connects, reads the whole collection, and disconnects. Documents
// that fail to decode are tallied and skipped.
func (l *MongoLoader) Load(ctx context.Context) (*LoadResult, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(l.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	defer client.Disconnect(ctx)

	database := l.Database
	if database == "" {
		database = "recipes"
	}
	collection := l.Collection
	if collection == "" {
		collection = "recipes"
	}

	cursor, err := client.Database(database).Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("querying recipes collection: %w", err)
	}
	defer cursor.Close(ctx)

	source := database + "." + collection
	result := &LoadResult{}
	for cursor.Next(ctx) {
		var doc mongoRecord
		if err := cursor.Decode(&doc); err != nil {
			result.skip(source, "?", err)
			continue
		}

		raw := rawRecord{
			Name:            doc.Name,
			Category:        doc.Category,
			PrepTimeMinutes: doc.PrepTimeMinutes,
		}
		for _, ing := range doc.Ingredients {
			raw.Ingredients = append(raw.Ingredients, rawIngredient{
				Ingredient: ing.Ingredient,
				Amount:     bsonAmount(ing.Amount),
				Unit:       ing.Unit,
			})
		}

		recipe, err := raw.toRecipe(doc.ID.Hex())
		if err != nil {
			result.skip(source, doc.ID.Hex(), err)
			continue
		}
		result.keep(recipe)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("reading recipes collection: %w", err)
	}
	return result, nil
}

// bsonAmount converts a decoded BSON amount value into an Amount.
func bsonAmount(v any) types.Amount {
	switch n := v.(type) {
	case nil:
		return types.Amount{}
	case float64:
		return types.Number(n)
	case int32:
		return types.Number(float64(n))
	case int64:
		return types.Number(float64(n))
	case string:
		return ingredient.ParseAmount(n)
	default:
		return types.Unparsed(fmt.Sprintf("%v", v))
	}
}
