// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the recipe-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recipe-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// defaultModelPath is where commands look for the trained model when neither
// the --model flag nor the config file names one.
const defaultModelPath = "models/recipe-engine.gob"

// modelPath resolves the model location: flag value, then config file, then
// the default.
func modelPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := viper.GetString("model.path"); v != "" {
		return v
	}
	return defaultModelPath
}

// rootCmd is the base command for the recipe-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "recipe-engine",
	Short: "Ingredient-based recipe recommendation engine",
	Long: `recipe-engine trains a recipe recommendation model from a corpus of
recipes and answers ingredient queries against it. Training builds a TF-IDF
vocabulary over normalized ingredient names and a random-forest category
classifier; queries blend cosine similarity, ingredient coverage, and missing
counts into a single ranking score.

Each pipeline stage is a subcommand: train builds and saves a model,
recommend ranks recipes for a set of available ingredients, suggest
auto-completes partial ingredient names, and evaluate reports classifier
metrics for a saved model.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./recipe-engine.yaml or ~/.config/recipe-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("recipe-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "recipe-engine"))
		}
	}

	viper.SetEnvPrefix("RECIPE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
