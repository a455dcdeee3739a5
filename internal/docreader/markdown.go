package docreader

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownReader handles Markdown files using goldmark. GFM tables are
// enabled so each table row comes out as one line.
type MarkdownReader struct{}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

func (p *MarkdownReader) Read(r io.Reader, filename string) (*Text, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := markdown.Parser().Parse(text.NewReader(src))

	var lines []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		lines = append(lines, blockLines(n, src)...)
	}

	return &Text{
		Title: trimExt(filename, ".md", ".markdown"),
		Pages: []string{strings.Join(lines, "\n")},
	}, nil
}

// blockLines renders one top-level block as text lines.
func blockLines(n ast.Node, src []byte) []string {
	switch node := n.(type) {
	case *east.Table:
		var lines []string
		for row := node.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				if t := extractText(cell, src); t != "" {
					cells = append(cells, t)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
		return lines
	case *ast.List, *ast.ListItem, *ast.Blockquote:
		var lines []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			lines = append(lines, blockLines(c, src)...)
		}
		return lines
	}
	if t := extractText(n, src); t != "" {
		return strings.Split(t, "\n")
	}
	return nil
}

// extractText gets the text content of a goldmark AST node. Raw source
// lines are only used for leaf blocks such as code blocks; blocks with
// inline children are rendered from those children.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
