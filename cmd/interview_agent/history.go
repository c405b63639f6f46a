package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation sessions",
	RunE:  runHistory,
}

var (
	histLimit int
	histJSON  bool
)

func init() {
	historyCmd.Flags().IntVarP(&histLimit, "limit", "n", 0, "Number of sessions to show (default from config)")
	historyCmd.Flags().BoolVar(&histJSON, "json", false, "Print sessions as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openHistory(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer store.Close()

	limit := histLimit
	if limit <= 0 {
		limit = cfg.History.Limit
	}
	records, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if histJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(records)
	return nil
}
