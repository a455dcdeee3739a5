// Package docreader turns uploaded or downloaded curriculum documents into
// plain text, one table row or paragraph per line.
package docreader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnreadable is returned when a document yields no text at all.
var ErrUnreadable = errors.New("no extractable text")

// Reader converts raw document bytes into Text.
type Reader interface {
	Read(r io.Reader, filename string) (*Text, error)
}

// Options tune the readers returned by ForFile.
type Options struct {
	// PdftotextFallback retries PDFs with the pdftotext binary when the
	// Go library fails or finds nothing.
	PdftotextFallback bool
}

// Text is the extracted content of one document.
type Text struct {
	Title string
	Pages []string
}

// String joins all pages with newlines.
func (t *Text) String() string {
	return strings.Join(t.Pages, "\n")
}

// FirstPages joins at most n leading pages. n <= 0 means all pages.
func (t *Text) FirstPages(n int) string {
	if n <= 0 || n >= len(t.Pages) {
		return t.String()
	}
	return strings.Join(t.Pages[:n], "\n")
}

// Empty reports whether no page has any non-space content.
func (t *Text) Empty() bool {
	for _, p := range t.Pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// SupportedExtensions lists file extensions this service can read.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate reader for a filename.
func ForFile(filename string, opts Options) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextReader{}, nil
	case ".md", ".markdown":
		return &MarkdownReader{}, nil
	case ".csv":
		return &CSVReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	case ".pdf":
		return &PDFReader{FallbackPdftotext: opts.PdftotextFallback}, nil
	case ".docx":
		return &DOCXReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Extract reads r with the reader for filename and fails with ErrUnreadable
// when the result is empty.
func Extract(r io.Reader, filename string, opts Options) (*Text, error) {
	rd, err := ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	text, err := rd.Read(r, filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if text.Empty() {
		return nil, fmt.Errorf("read %s: %w", filename, ErrUnreadable)
	}
	return text, nil
}

// ExtractFile is Extract on a file path.
func ExtractFile(path string, opts Options) (*Text, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return Extract(f, filepath.Base(path), opts)
}

func trimExt(filename string, exts ...string) string {
	name := filepath.Base(filename)
	for _, ext := range exts {
		if strings.EqualFold(filepath.Ext(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
