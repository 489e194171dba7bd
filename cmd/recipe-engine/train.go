// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recipe-engine/internal/corpus"
	"github.com/pdiddy/recipe-engine/internal/model"
	"github.com/pdiddy/recipe-engine/internal/recommend"
	"github.com/pdiddy/recipe-engine/internal/secrets"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a recommendation model from a recipe corpus",
	Long: `Train loads a recipe corpus, splits it into training and held-out
sets, fits the TF-IDF vocabulary and the category classifier on the training
set, evaluates on the held-out set, and saves the model to a single file.

The corpus source is jsonl (one recipe JSON object per line), sqlite (a local
recipe database), or mongodb (connection string from --uri or the secrets
directory).`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().String("source", "jsonl", "corpus source: jsonl, sqlite, or mongodb")
	trainCmd.Flags().String("input", "", "corpus file path (jsonl and sqlite sources)")
	trainCmd.Flags().String("uri", "", "MongoDB connection string (mongodb source; default from .secrets/)")
	trainCmd.Flags().String("database", "", "MongoDB database name (default \"recipes\")")
	trainCmd.Flags().String("collection", "", "MongoDB collection name (default \"recipes\")")
	trainCmd.Flags().String("output", "", "model output path (default "+defaultModelPath+")")
	trainCmd.Flags().Float64("holdout", 0, "fraction of recipes held out for evaluation (default 0.2)")
	trainCmd.Flags().Int64("seed", 0, "random seed for the corpus shuffle and forest (default 42)")
	trainCmd.Flags().Int("trees", 0, "number of trees in the category forest (default 100)")
	trainCmd.Flags().Int("min-df", 0, "minimum recipes a vocabulary term must appear in (default 2)")

	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	loader, err := loaderFromFlags(cmd)
	if err != nil {
		return err
	}

	holdout, _ := cmd.Flags().GetFloat64("holdout")
	seed, _ := cmd.Flags().GetInt64("seed")
	trees, _ := cmd.Flags().GetInt("trees")
	minDF, _ := cmd.Flags().GetInt("min-df")

	cfg := types.TrainingConfig{
		HoldoutFraction: holdout,
		Seed:            seed,
		MinDocFreq:      minDF,
		Trees:           trees,
	}

	engine, err := recommend.Train(context.Background(), loader, cfg, os.Stderr)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	output = modelPath(output)
	if err := model.SaveFile(engine.Snapshot(), output); err != nil {
		return err
	}

	m := engine.Metrics()
	fmt.Fprintf(os.Stdout, "Model saved to %s\n", output)
	fmt.Fprintf(os.Stdout, "Trained on %d recipes, evaluated on %d (accuracy %.3f, F1 %.3f)\n",
		m.TrainingRecipes, m.HeldOutRecipes, m.Accuracy, m.F1)
	return nil
}

// loaderFromFlags builds the corpus loader selected by --source.
func loaderFromFlags(cmd *cobra.Command) (corpus.Loader, error) {
	source, _ := cmd.Flags().GetString("source")
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = viper.GetString("corpus.path")
	}

	switch types.CorpusSource(source) {
	case types.SourceJSONL:
		if input == "" {
			return nil, fmt.Errorf("jsonl source requires --input")
		}
		return &corpus.JSONLLoader{Path: input}, nil

	case types.SourceSQLite:
		if input == "" {
			return nil, fmt.Errorf("sqlite source requires --input")
		}
		return &corpus.SQLiteLoader{Path: input}, nil

	case types.SourceMongoDB:
		uri, _ := cmd.Flags().GetString("uri")
		if uri == "" {
			uri = viper.GetString("corpus.mongo_uri")
		}
		if uri == "" {
			var err error
			uri, err = secrets.MongoURI(loadedSecrets)
			if err != nil {
				return nil, fmt.Errorf("mongodb source requires --uri or mongo credentials in .secrets/: %w", err)
			}
		}
		database, _ := cmd.Flags().GetString("database")
		if database == "" {
			database = viper.GetString("corpus.mongo_database")
		}
		collection, _ := cmd.Flags().GetString("collection")
		if collection == "" {
			collection = viper.GetString("corpus.mongo_collection")
		}
		return &corpus.MongoLoader{URI: uri, Database: database, Collection: collection}, nil

	default:
		return nil, fmt.Errorf("unsupported source %q: use jsonl, sqlite, or mongodb", source)
	}
}
