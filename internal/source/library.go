package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/curricula/internal/classify"
	"github.com/dgallion1/curricula/internal/docreader"
)

// ErrNotFound is returned when no document exists for a program.
var ErrNotFound = errors.New("curriculum document not found")

// StandardNames are the file names that identify a program's curriculum
// without looking inside it, in lookup order.
func StandardNames(programID string) []string {
	return []string{
		programID + "_curriculum.pdf",
		programID + ".pdf",
		"curriculum_" + programID + ".pdf",
	}
}

// Library picks a program's curriculum out of a directory of documents.
type Library struct {
	dir        string
	classifier *classify.Classifier
	readOpts   docreader.Options
	maxPages   int
	log        *slog.Logger
}

// NewLibrary creates a library over dir. maxPages bounds how much of each
// candidate is read for classification.
func NewLibrary(dir string, classifier *classify.Classifier, readOpts docreader.Options, maxPages int, log *slog.Logger) *Library {
	return &Library{
		dir:        dir,
		classifier: classifier,
		readOpts:   readOpts,
		maxPages:   maxPages,
		log:        log,
	}
}

// Candidates lists the documents that may hold the curriculum of
// programID. Files with a standard name are returned alone when present;
// otherwise every supported document in the directory, sorted by name.
func (l *Library) Candidates(programID string) ([]string, error) {
	cands, _, err := l.candidates(programID)
	return cands, err
}

func (l *Library) candidates(programID string) (paths []string, standard bool, err error) {
	if err := ValidateProgramID(programID); err != nil {
		return nil, false, err
	}
	for _, name := range StandardNames(programID) {
		path := filepath.Join(l.dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			paths = append(paths, path)
		}
	}
	if len(paths) > 0 {
		return paths, true, nil
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("list documents: %w", err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() && docreader.IsSupportedExtension(e.Name()) {
			paths = append(paths, filepath.Join(l.dir, e.Name()))
		}
	}
	return paths, false, nil
}

// Find returns the path of the curriculum document for programID. A
// standard name wins outright. Otherwise the first candidate whose leading
// pages mention the program is chosen, falling back to the first candidate.
func (l *Library) Find(ctx context.Context, programID string) (string, error) {
	cands, standard, err := l.candidates(programID)
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", fmt.Errorf("%s in %s: %w", programID, l.dir, ErrNotFound)
	}
	if standard {
		l.log.Debug("document found by name", "program_id", programID, "path", cands[0])
		return cands[0], nil
	}

	path, err := l.classifier.Select(ctx, programID, cands, l.leadingText)
	if err != nil {
		return "", fmt.Errorf("select document for %s: %w", programID, err)
	}
	l.log.Info("document selected", "program_id", programID, "path", path, "candidates", len(cands))
	return path, nil
}

func (l *Library) leadingText(_ context.Context, path string) (string, error) {
	text, err := docreader.ExtractFile(path, l.readOpts)
	if err != nil {
		return "", err
	}
	return text.FirstPages(l.maxPages), nil
}
