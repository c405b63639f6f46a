package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/parsing"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a saved model response into questions and recommendations",
	Long:  "Parse a saved model response (JSON or free text) from a file or stdin and print the extracted items as JSON.",
	RunE:  runParse,
}

var (
	parseFile  string
	parseType  string
	parseLevel string
)

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "Response file (default stdin)")
	parseCmd.Flags().StringVar(&parseType, "type", "", "Interview type used to infer categories")
	parseCmd.Flags().StringVar(&parseLevel, "level", "", "Experience level used to infer difficulty")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if parseFile != "" {
		raw, err = os.ReadFile(parseFile)
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	parsed, err := parsing.Parse(string(raw))
	if err != nil {
		return err
	}

	if parseType != "" {
		itype, err := types.ParseInterviewType(parseType)
		if err != nil {
			return err
		}
		var level types.ExperienceLevel
		if parseLevel != "" {
			if level, err = types.ParseExperienceLevel(parseLevel); err != nil {
				return err
			}
		}
		parsing.Enrich(parsed, itype, level)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
