package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/observability"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/prompts"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List prompt templates and how requests resolve to them",
	RunE:  runTemplates,
}

var (
	tmplTechnique string
	tmplType      string
	tmplCoverage  bool
)

func init() {
	templatesCmd.Flags().StringVar(&tmplTechnique, "technique", "", "Only list templates of this technique")
	templatesCmd.Flags().StringVar(&tmplType, "type", "", "Only list templates of this interview type")
	templatesCmd.Flags().BoolVar(&tmplCoverage, "coverage", false, "Also show exact/fallback coverage per technique")

	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	lib, err := prompts.NewDefaultLibrary()
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	var filter prompts.Filter
	if tmplTechnique != "" {
		if filter.Technique, err = types.ParseTechnique(tmplTechnique); err != nil {
			return err
		}
	}
	if tmplType != "" {
		if filter.InterviewType, err = types.ParseInterviewType(tmplType); err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintTemplates(lib.List(filter))
	if tmplCoverage {
		printer.PrintCoverage(lib.Coverage())
	}
	return nil
}
