package main

import (
	"github.com/spf13/cobra"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/cost"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/observability"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show per-model token prices",
	RunE:  runPricing,
}

var pricingModel string

func init() {
	pricingCmd.Flags().StringVarP(&pricingModel, "model", "m", "", "Show a single model")
	rootCmd.AddCommand(pricingCmd)
}

func runPricing(cmd *cobra.Command, args []string) error {
	calc := cost.NewCalculator()

	models := calc.SupportedModels()
	if pricingModel != "" {
		models = []string{pricingModel}
	}

	infos := make([]cost.PricingInfo, 0, len(models))
	for _, m := range models {
		info, err := calc.PricingInfo(m)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintPricing(infos)
	return nil
}
