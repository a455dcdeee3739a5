package curriculum

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Segment is a block header found in the text together with its span.
type Segment struct {
	Kind    BlockKind
	Name    string
	Number  *int
	Credits int
	Hours   int
	Stated  bool

	Start     int    // offset of the header
	HeaderEnd int    // offset just past the header
	End       int    // offset of the next header, or len(text)
	Body      string // text[HeaderEnd:End]
}

type headerShape struct {
	name    string
	pattern *regexp.Regexp
	build   func(text string, loc []int) Segment
}

func (p *Parser) buildHeaderShapes() []headerShape {
	blockWords := alternation(p.rules.BlockWords)
	universal := alternation(p.rules.UniversalStarts) + `[^\n]*?` + alternation(p.rules.UniversalEnds)

	return []headerShape{
		{
			// Block 1. Title 60 2160 (totals may wrap onto the next line)
			name:    "numbered",
			pattern: regexp.MustCompile(`(?i)(` + blockWords + `)\s+(\d+)\.\s*([^\n]+?)\s+(\d+)\s+(\d+)`),
			build: func(text string, loc []int) Segment {
				seg := p.numberedSegment(group(text, loc, 1), group(text, loc, 2), group(text, loc, 3))
				seg.Credits, seg.Hours, seg.Stated = totals(group(text, loc, 4), group(text, loc, 5))
				return seg
			},
		},
		{
			// Universal training 10 360
			name:    "universal",
			pattern: regexp.MustCompile(`(?i)(` + universal + `)\s+(\d+)\s+(\d+)`),
			build: func(text string, loc []int) Segment {
				seg := Segment{Kind: KindUniversal, Name: strings.TrimSpace(group(text, loc, 1))}
				seg.Credits, seg.Hours, seg.Stated = totals(group(text, loc, 2), group(text, loc, 3))
				return seg
			},
		},
		{
			// Block 3. Title, with no totals on the line
			name:    "numbered-bare",
			pattern: regexp.MustCompile(`(?im)^(` + blockWords + `)\s+(\d+)\.\s*(.+)$`),
			build: func(text string, loc []int) Segment {
				return p.numberedSegment(group(text, loc, 1), group(text, loc, 2), group(text, loc, 3))
			},
		},
	}
}

// Segment finds block headers in normalized text and assigns each the span
// up to the next header. Shapes earlier in the list win over overlapping
// matches of later ones; the result is in document order.
func (p *Parser) Segment(text string) []Segment {
	var segs []Segment
	for _, shape := range p.headerShapes {
		for _, loc := range shape.pattern.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(segs, loc[0], loc[1]) {
				continue
			}
			seg := shape.build(text, loc)
			seg.Start, seg.HeaderEnd = loc[0], loc[1]
			segs = append(segs, seg)
		}
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	for i := range segs {
		end := len(text)
		if i+1 < len(segs) {
			end = segs[i+1].Start
		}
		segs[i].End = end
		segs[i].Body = text[segs[i].HeaderEnd:end]
	}
	return segs
}

func (p *Parser) numberedSegment(word, num, title string) Segment {
	seg := Segment{
		Kind: KindGeneric,
		Name: fmt.Sprintf("%s %s. %s", word, num, strings.TrimSpace(title)),
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return seg
	}
	seg.Number = intPtr(n)
	switch n {
	case 1:
		seg.Kind = KindDiscipline
	case 2:
		seg.Kind = KindPractice
	}
	return seg
}

func overlaps(segs []Segment, start, end int) bool {
	for _, s := range segs {
		if start < s.HeaderEnd && end > s.Start {
			return true
		}
	}
	return false
}

func totals(rawCredits, rawHours string) (credits, hours int, ok bool) {
	credits, err := strconv.Atoi(rawCredits)
	if err != nil {
		return 0, 0, false
	}
	hours, err = strconv.Atoi(rawHours)
	if err != nil {
		return 0, 0, false
	}
	return credits, hours, true
}

// group returns submatch i of a FindStringSubmatchIndex result.
func group(text string, loc []int, i int) string {
	if 2*i+1 >= len(loc) || loc[2*i] < 0 {
		return ""
	}
	return text[loc[2*i]:loc[2*i+1]]
}

// alternation builds a non-capturing group of quoted words, longest first
// so that a longer keyword wins over its own prefix.
func alternation(words []string) string {
	sorted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			sorted = append(sorted, regexp.QuoteMeta(w))
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	return `(?:` + strings.Join(sorted, "|") + `)`
}
