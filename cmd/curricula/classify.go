package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dgallion1/curricula/internal/classify"
	"github.com/dgallion1/curricula/internal/config"
	"github.com/dgallion1/curricula/internal/docreader"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>...",
	Short: "Score documents against the catalog program keywords",
	Long: `Classify reads the first pages of each document and counts the
keywords of each program that appear in them. With --program only that
program is scored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("program", "", "score only this program id")
	classifyCmd.Flags().Int("max-pages", 3, "leading pages read from each document")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}
	cls := classify.New(catalog.Keywords(), cfg.ClassifyThreshold, newLogger(cmd.ErrOrStderr()))

	programs := make([]string, 0, len(catalog.Programs))
	if id, _ := cmd.Flags().GetString("program"); id != "" {
		if !cls.Known(id) {
			return fmt.Errorf("program %q has no keywords in the catalog", id)
		}
		programs = append(programs, id)
	} else {
		for _, p := range catalog.Programs {
			programs = append(programs, p.ID)
		}
		sort.Strings(programs)
	}
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	out := cmd.OutOrStdout()
	opts := docreader.Options{PdftotextFallback: cfg.PDFFallbackPdftotext}
	for _, path := range args {
		text, err := docreader.ExtractFile(path, opts)
		if err != nil {
			fmt.Fprintf(out, "%s\terror: %v\n", path, err)
			continue
		}
		lead := text.FirstPages(maxPages)
		for _, id := range programs {
			score := cls.Score(lead, id)
			verdict := "no"
			if score >= cls.Threshold() {
				verdict = "match"
			}
			fmt.Fprintf(out, "%s\t%s\t%d\t%s\n", path, id, score, verdict)
		}
	}
	return nil
}
