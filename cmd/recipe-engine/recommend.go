// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/recipe-engine/internal/model"
	"github.com/pdiddy/recipe-engine/internal/recommend"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank recipes by how well they fit the available ingredients",
	Long: `Recommend scores every recipe in the trained model against the
ingredients you have on hand. The score blends TF-IDF cosine similarity,
the share of recipe ingredients you can cover, and the number of missing
ingredients; recipes in the category predicted for your ingredients get a
small boost.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("model", "", "trained model path (default "+defaultModelPath+")")
	recommendCmd.Flags().String("ingredients", "", "comma-separated available ingredients (required)")
	recommendCmd.Flags().Int("top", 5, "maximum number of recommendations")
	recommendCmd.Flags().Float64("threshold", recommend.DefaultThreshold, "minimum combined score")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("ingredients")
	ingredients := splitIngredients(raw)
	if len(ingredients) == 0 {
		return fmt.Errorf("provide available ingredients with --ingredients \"flour,eggs,milk\"")
	}

	path, _ := cmd.Flags().GetString("model")
	state, err := model.LoadFile(modelPath(path))
	if err != nil {
		return err
	}
	engine := recommend.New(state)

	top, _ := cmd.Flags().GetInt("top")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	results, err := engine.Recommend(ingredients, top, threshold)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRecommendOutput(results, jsonOutput)
}

// splitIngredients turns a comma-separated flag value into a clean list.
func splitIngredients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatRecommendOutput(results []types.Recommendation, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No recipes matched. Try more ingredients or a lower --threshold.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-16s  %-6s  %-7s  %s\n",
		"Rank", "Recipe", "Category", "Score", "Match", "Missing")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, r := range results {
		name := r.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		missing := make([]string, 0, len(r.MissingIngredients))
		for _, line := range r.MissingIngredients {
			missing = append(missing, line.Ingredient)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-16s  %.3f  %5.1f%%  %s\n",
			i+1, name, r.Category, r.CombinedScore, r.MatchPercentage,
			strings.Join(missing, ", "))
	}

	fmt.Fprintf(os.Stdout, "\n%d recommendation(s)\n", len(results))
	return nil
}
