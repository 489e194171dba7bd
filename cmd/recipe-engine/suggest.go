// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/recipe-engine/internal/model"
	"github.com/pdiddy/recipe-engine/internal/recommend"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial]",
	Short: "Auto-complete a partial ingredient name",
	Long: `Suggest matches a partial ingredient name against every ingredient
observed in the training corpus and returns the closest completions in
alphabetical order.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().String("model", "", "trained model path (default "+defaultModelPath+")")
	suggestCmd.Flags().Int("max", 5, "maximum number of suggestions")

	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("model")
	state, err := model.LoadFile(modelPath(path))
	if err != nil {
		return err
	}
	engine := recommend.New(state)

	max, _ := cmd.Flags().GetInt("max")
	suggestions := engine.Suggest(args[0], max)
	if len(suggestions) == 0 {
		fmt.Println("No matching ingredients.")
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintln(os.Stdout, s)
	}
	return nil
}
