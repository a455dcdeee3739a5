package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/curricula/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <program>",
	Short: "List recent parse runs of a program",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to show, 0 for all")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if !cfg.HistoryEnabled() {
		return fmt.Errorf("history is disabled")
	}
	hist, err := store.OpenHistory(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer hist.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := hist.List(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintf(out, "no runs recorded for %s\n", args[0])
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %-10s credits=%-4d courses=%-4d %s\n",
			r.FinishedAt.Local().Format(time.DateTime), r.Status, r.TotalCredits, r.TotalCourses, r.Error)
	}
	return nil
}
