// Command curricula parses curriculum documents and keeps the stored
// results of the catalog programs up to date.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/curricula/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "curricula",
	Short: "Extract course structure from curriculum documents",
	Long: `curricula recovers the block, sub-block and course tree of a study
program from its curriculum document (PDF, DOCX, HTML, Markdown, CSV or text).

Settings come from flags, CURRICULA_* environment variables, the service
environment variables (PDF_DIR, OUTPUT_DIR, CATALOG_FILE, ...) and an optional
curricula.yaml, in that order of precedence.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./curricula.yaml or ~/.config/curricula/config.yaml)")
	pf.String("catalog", "", "program catalog YAML (default: built-in catalog)")
	pf.String("pdf-dir", "", "directory of downloaded and local curriculum documents")
	pf.String("output-dir", "", "directory for parse results")
	pf.String("history-db", "", `history database path, "off" to disable`)
	pf.Int("threshold", 0, "keyword hits needed to attribute a document to a program")
	pf.Bool("pdftotext", true, "fall back to pdftotext when PDF extraction yields nothing")
	pf.BoolP("verbose", "v", false, "log debug output to stderr")

	for _, name := range []string{"catalog", "pdf-dir", "output-dir", "history-db", "threshold", "pdftotext", "verbose"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("curricula")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "curricula"))
		}
	}

	viper.SetEnvPrefix("CURRICULA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig layers flag, CURRICULA_* and config file values over the
// service environment configuration.
func loadConfig() config.Config {
	cfg := config.Load()
	if v := viper.GetString("catalog"); v != "" {
		cfg.CatalogFile = v
	}
	if v := viper.GetString("pdf-dir"); v != "" {
		cfg.PDFDir = v
	}
	if v := viper.GetString("output-dir"); v != "" {
		cfg.OutputDir = v
		if os.Getenv("HISTORY_DB") == "" {
			cfg.HistoryDB = filepath.Join(v, "history.db")
		}
	}
	if v := viper.GetString("history-db"); v != "" {
		cfg.HistoryDB = v
	}
	if n := viper.GetInt("threshold"); n > 0 {
		cfg.ClassifyThreshold = n
	}
	if viper.IsSet("pdftotext") {
		cfg.PDFFallbackPdftotext = viper.GetBool("pdftotext")
	}
	return cfg
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
