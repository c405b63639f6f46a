package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/cost"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Preview the cost of a call without making it",
	RunE:  runEstimate,
}

var (
	estModel        string
	estInputTokens  int
	estOutputTokens int
)

func init() {
	estimateCmd.Flags().StringVarP(&estModel, "model", "m", types.DefaultModel, "Model name")
	estimateCmd.Flags().IntVar(&estInputTokens, "input-tokens", 1000, "Expected prompt tokens")
	estimateCmd.Flags().IntVar(&estOutputTokens, "output-tokens", types.DefaultMaxTokens, "Expected completion tokens")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	b, err := cost.NewCalculator().Estimate(estModel, estInputTokens, estOutputTokens)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", estModel, cost.FormatBreakdown(b))
	return nil
}
