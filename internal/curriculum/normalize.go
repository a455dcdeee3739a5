package curriculum

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLines splits extracted text into trimmed, non-empty lines with
// internal whitespace collapsed. NFKC folds ligatures and non-breaking
// spaces left behind by PDF extraction.
func NormalizeLines(text string) []string {
	text = norm.NFKC.String(text)

	var lines []string
	for _, raw := range strings.FieldsFunc(text, isLineBreak) {
		line := strings.Join(strings.Fields(strings.Map(controlToSpace, raw)), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r' || r == '\f' || r == '\v' || r == '\u2028' || r == '\u2029'
}

func controlToSpace(r rune) rune {
	if r == utf8.RuneError || unicode.IsControl(r) {
		return ' '
	}
	return r
}
