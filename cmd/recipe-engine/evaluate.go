// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/recipe-engine/internal/model"
	"github.com/pdiddy/recipe-engine/internal/recommend"
	"github.com/pdiddy/recipe-engine/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Report classifier metrics for a trained model",
	Long: `Evaluate prints the category classifier's held-out accuracy,
precision, recall, and F1 score, plus the most important vocabulary terms.
The metrics are computed at training time and stored with the model.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().String("model", "", "trained model path (default "+defaultModelPath+")")
	evaluateCmd.Flags().StringP("output", "o", "", "write the report to a YAML file")
	evaluateCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("model")
	state, err := model.LoadFile(modelPath(path))
	if err != nil {
		return err
	}
	m := recommend.New(state).Metrics()

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		data, err := yaml.Marshal(m)
		if err != nil {
			return fmt.Errorf("encoding evaluation report: %w", err)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing evaluation report: %w", err)
		}
		fmt.Printf("Report written to %s\n", output)
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEvaluateOutput(m, jsonOutput)
}

func formatEvaluateOutput(m types.EvaluationMetrics, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	fmt.Fprintf(os.Stdout, "Training recipes:  %d\n", m.TrainingRecipes)
	fmt.Fprintf(os.Stdout, "Held-out recipes:  %d\n", m.HeldOutRecipes)
	fmt.Fprintf(os.Stdout, "Accuracy:          %.3f\n", m.Accuracy)
	fmt.Fprintf(os.Stdout, "Precision:         %.3f\n", m.Precision)
	fmt.Fprintf(os.Stdout, "Recall:            %.3f\n", m.Recall)
	fmt.Fprintf(os.Stdout, "F1:                %.3f\n", m.F1)

	if len(m.TopTerms) > 0 {
		fmt.Fprintf(os.Stdout, "\n%-4s  %-24s  %s\n", "Rank", "Term", "Importance")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 44))
		for i, t := range m.TopTerms {
			fmt.Fprintf(os.Stdout, "%-4d  %-24s  %.4f\n", i+1, t.Term, t.Importance)
		}
	}
	return nil
}
