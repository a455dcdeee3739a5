package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/curricula/internal/config"
	"github.com/dgallion1/curricula/internal/curriculum"
	"github.com/dgallion1/curricula/internal/docreader"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a curriculum document and print its course tree as JSON",
	Long: `Parse extracts the text of a document and prints the recovered
curriculum. With --explain it prints instead how each block header and course
line was recognized, which helps when tuning the parse rules of a catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("explain", false, "print the recognized headers and course lines instead of JSON")
	parseCmd.Flags().Bool("text", false, "print the extracted text only")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}

	text, err := docreader.ExtractFile(args[0], docreader.Options{PdftotextFallback: cfg.PDFFallbackPdftotext})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if onlyText, _ := cmd.Flags().GetBool("text"); onlyText {
		_, err := io.WriteString(out, text.String()+"\n")
		return err
	}

	parser := curriculum.NewParser(catalog.Rules)
	if explain, _ := cmd.Flags().GetBool("explain"); explain {
		return writeExplain(out, parser, text.String())
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(parser.Parse(text.String()))
}

// writeExplain prints every segment header followed by the lines in its
// span that match a course shape.
func writeExplain(w io.Writer, p *curriculum.Parser, raw string) error {
	lines := curriculum.NormalizeLines(raw)
	fmt.Fprintf(w, "program: %s\n", p.ProgramName(lines))

	text := strings.Join(lines, "\n")
	segs := p.Segment(text)
	if len(segs) == 0 {
		_, err := fmt.Fprintln(w, "no block headers found")
		return err
	}
	for _, seg := range segs {
		totals := "derived"
		if seg.Stated {
			totals = fmt.Sprintf("%d credits / %d hours", seg.Credits, seg.Hours)
		}
		fmt.Fprintf(w, "\n[%s] %s (%s)\n", seg.Kind, seg.Name, totals)
		for _, line := range strings.Split(seg.Body, "\n") {
			courses, shape := p.MatchCourseLine(line)
			if shape == "" {
				continue
			}
			fmt.Fprintf(w, "  %-15s %d  %s\n", shape, len(courses), line)
		}
	}
	return nil
}
