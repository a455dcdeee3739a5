// Package app wires configuration into the collaborators shared by the
// HTTP server and the command-line tool.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/curricula/internal/classify"
	"github.com/dgallion1/curricula/internal/config"
	"github.com/dgallion1/curricula/internal/curriculum"
	"github.com/dgallion1/curricula/internal/docreader"
	"github.com/dgallion1/curricula/internal/pipeline"
	"github.com/dgallion1/curricula/internal/programpage"
	"github.com/dgallion1/curricula/internal/source"
	"github.com/dgallion1/curricula/internal/store"
)

type App struct {
	Config     config.Config
	Catalog    config.Catalog
	Classifier *classify.Classifier
	Deps       pipeline.Deps

	fetcher *source.Fetcher
	log     *slog.Logger
}

// New loads the catalog and opens the result store and, unless disabled,
// the history database.
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	readOpts := docreader.Options{PdftotextFallback: cfg.PDFFallbackPdftotext}
	cls := classify.New(catalog.Keywords(), cfg.ClassifyThreshold, log)
	fetcher := source.NewFetcher(cfg.PDFDir, cfg.HTTPTimeout, log)

	st, err := store.Open(cfg.OutputDir, log)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	var hist *store.History
	if cfg.HistoryEnabled() {
		hist, err = store.OpenHistory(cfg.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	a := &App{
		Config:     cfg,
		Catalog:    catalog,
		Classifier: cls,
		Deps: pipeline.Deps{
			Parser:      curriculum.NewParser(catalog.Rules),
			Fetcher:     fetcher,
			Scraper:     programpage.NewScraper(fetcher, catalog.LinkPhrases, log),
			Library:     source.NewLibrary(cfg.PDFDir, cls, readOpts, cfg.ClassifyMaxPages, log),
			Store:       st,
			History:     hist,
			Stats:       pipeline.NewParseStats(time.Hour),
			ReadOptions: readOpts,
		},
		fetcher: fetcher,
		log:     log,
	}
	log.Info("app ready",
		"programs", len(catalog.Programs),
		"pdf_dir", cfg.PDFDir,
		"output_dir", cfg.OutputDir,
		"history", hist != nil,
	)
	return a, nil
}

// Orchestrator returns a pipeline over the app's collaborators. It is not
// started.
func (a *App) Orchestrator() *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(a.Config, a.Deps, a.log)
}

// Programs resolves ids against the catalog. No ids selects every program.
func (a *App) Programs(ids []string) ([]config.Program, error) {
	if len(ids) == 0 {
		return a.Catalog.Programs, nil
	}
	out := make([]config.Program, 0, len(ids))
	for _, id := range ids {
		p, ok := a.Catalog.Program(id)
		if !ok {
			return nil, fmt.Errorf("program %q is not in the catalog", id)
		}
		out = append(out, p)
	}
	return out, nil
}

func (a *App) Close() error {
	a.fetcher.Close()
	if a.Deps.History != nil {
		return a.Deps.History.Close()
	}
	return nil
}
