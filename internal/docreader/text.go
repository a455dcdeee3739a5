package docreader

import (
	"io"
	"strings"
)

// TextReader handles plain text files. Form feeds split pages, which is
// how pdftotext output saved as .txt keeps its page boundaries.
type TextReader struct{}

func (p *TextReader) Read(r io.Reader, filename string) (*Text, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Text{
		Title: trimExt(filename, ".txt"),
		Pages: splitPages(string(data)),
	}, nil
}
