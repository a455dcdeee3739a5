// Package curriculum recovers a block / sub-block / course tree from the
// linearized text of a curriculum document.
//
// Parsing never fails. Lines, headers and blocks that do not match any
// known shape are skipped, so a document without recognizable structure
// yields an empty tree with zero totals.
package curriculum

import (
	"regexp"
	"strings"
)

// Parser holds compiled patterns for one set of Rules. It is immutable after
// NewParser and safe for concurrent use.
type Parser struct {
	rules Rules

	courseShapes []courseShape
	headerShapes []headerShape
	strategies   map[BlockKind]blockStrategy
	subHeaderRe  *regexp.Regexp

	programPhrases   []string
	headingKeywords  []string
	excludedPhrases  []string
	practiceKeywords []string
}

// NewParser compiles rules, filling unset fields from DefaultRules.
func NewParser(rules Rules) *Parser {
	p := &Parser{rules: rules.withDefaults()}
	p.programPhrases = lowerAll(p.rules.ProgramPhrases)
	p.headingKeywords = lowerAll(p.rules.HeadingKeywords)
	p.excludedPhrases = lowerAll(p.rules.ExcludedPhrases)
	p.practiceKeywords = lowerAll(p.rules.PracticeKeywords)

	p.courseShapes = p.buildCourseShapes()
	p.headerShapes = p.buildHeaderShapes()
	p.strategies = p.buildStrategies()
	p.subHeaderRe = p.buildSubHeaderPattern()
	return p
}

// Parse is shorthand for NewParser(rules).Parse(text).
func Parse(text string, rules Rules) *Document {
	return NewParser(rules).Parse(text)
}

// Rules returns the effective rules, defaults included.
func (p *Parser) Rules() Rules {
	return p.rules
}

// Parse builds a fresh Document from extracted text.
func (p *Parser) Parse(text string) *Document {
	lines := NormalizeLines(text)
	doc := &Document{
		ProgramName: p.ProgramName(lines),
		Blocks:      []Block{},
	}
	if len(lines) == 0 {
		return doc
	}

	for _, seg := range p.Segment(strings.Join(lines, "\n")) {
		doc.Blocks = append(doc.Blocks, p.parseBlock(seg))
	}
	doc.TotalCredits, doc.TotalCourses = Aggregate(doc.Blocks)
	return doc
}

// ProgramName returns the first of the leading lines that mentions a
// program phrase, or the fallback label.
func (p *Parser) ProgramName(lines []string) string {
	n := min(p.rules.ProgramScanLines, len(lines))
	for _, line := range lines[:n] {
		lower := strings.ToLower(line)
		for _, phrase := range p.programPhrases {
			if strings.Contains(lower, phrase) {
				return line
			}
		}
	}
	return p.rules.FallbackProgramName
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
