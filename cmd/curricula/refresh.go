package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/curricula/internal/app"
	"github.com/dgallion1/curricula/internal/pipeline"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [program...]",
	Short: "Fetch, parse and store the curricula of catalog programs",
	Long: `Refresh scrapes each program page for its curriculum link, downloads
the document into the PDF directory (reusing a cached copy unless --force),
falls back to the local documents in that directory, then parses and stores
the result. Without arguments every catalog program is refreshed.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().Bool("force", false, "download again and re-parse unchanged documents")
	refreshCmd.Flags().Int("concurrency", 0, "programs refreshed at once (default: REFRESH_CONCURRENCY)")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.RefreshConcurrency = n
	}
	force, _ := cmd.Flags().GetBool("force")

	a, err := app.New(cfg, newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer a.Close()

	programs, err := a.Programs(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snaps, err := a.Orchestrator().RefreshAll(ctx, programs, force)
	out := cmd.OutOrStdout()
	failed := 0
	for _, s := range snaps {
		if s.Status == pipeline.StatusFailed {
			failed++
			fmt.Fprintf(out, "%-16s %-10s %s\n", s.ProgramID, s.Status, lastOf(s.Progress.Errors))
			continue
		}
		fmt.Fprintf(out, "%-16s %-10s blocks=%d courses=%d credits=%d source=%s\n",
			s.ProgramID, s.Status, s.Progress.Blocks, s.Progress.Courses, s.Progress.Credits, s.Source)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d program(s) failed", failed)
	}
	return nil
}

func lastOf(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[len(errs)-1]
}
