package curriculum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// blockStrategy extracts the sub-blocks of one segment.
type blockStrategy func(seg Segment) []SubBlock

func (p *Parser) buildStrategies() map[BlockKind]blockStrategy {
	return map[BlockKind]blockStrategy{
		KindDiscipline: p.disciplineSubBlocks,
		KindPractice:   p.practiceSubBlocks,
		KindUniversal:  p.universalSubBlocks,
		KindGeneric:    p.genericSubBlocks,
	}
}

func (p *Parser) buildSubHeaderPattern() *regexp.Regexp {
	labels := append(append([]string{}, p.rules.RequiredHeaders...), p.rules.ElectiveHeaders...)
	return regexp.MustCompile(`(?i)(` + alternation(labels) + `)\.?\s*(\d+)\s*(` +
		alternation(p.rules.SemesterWords) + `)\s+(\d+)\s+(\d+)`)
}

var practiceLineRe = regexp.MustCompile(`^(\d+)\s+(\p{Lu}[^0-9]+?)\s+(\d+)\s+(\d+)$`)

func (p *Parser) parseBlock(seg Segment) Block {
	b := Block{
		Name:         seg.Name,
		Number:       seg.Number,
		Kind:         seg.Kind,
		TotalCredits: seg.Credits,
		TotalHours:   seg.Hours,
		Stated:       seg.Stated,
	}
	strategy, ok := p.strategies[seg.Kind]
	if !ok {
		strategy = p.genericSubBlocks
	}
	b.SubBlocks = strategy(seg)
	if !b.Stated {
		for _, sb := range b.SubBlocks {
			b.TotalCredits += sb.TotalCredits
			b.TotalHours += sb.TotalHours
		}
	}
	return b
}

// disciplineSubBlocks splits the span at "required courses" / "elective
// pool" sub-headers, each carrying a semester and stated totals.
func (p *Parser) disciplineSubBlocks(seg Segment) []SubBlock {
	body := seg.Body
	locs := p.subHeaderRe.FindAllStringSubmatchIndex(body, -1)

	subs := []SubBlock{}
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		label := strings.TrimSpace(group(body, loc, 1))
		semester := group(body, loc, 2)

		sb := SubBlock{
			Name:    fmt.Sprintf("%s. %s %s", label, semester, group(body, loc, 3)),
			Courses: p.FindCourses(body[loc[1]:end]),
		}
		if n, err := strconv.Atoi(semester); err == nil {
			sb.Semester = intPtr(n)
		}
		sb.TotalCredits, sb.TotalHours, sb.Stated = totals(group(body, loc, 4), group(body, loc, 5))
		if !sb.Stated {
			sb.TotalCredits, sb.TotalHours = sumCourses(sb.Courses)
		}
		subs = append(subs, sb)
	}
	return subs
}

// practiceSubBlocks turns every "<semester> <practice name> <credits>
// <hours>" line into a sub-block holding that single course.
func (p *Parser) practiceSubBlocks(seg Segment) []SubBlock {
	subs := []SubBlock{}
	for _, line := range NormalizeLines(seg.Body) {
		if p.isExcluded(line) {
			continue
		}
		m := practiceLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		semester, err := strconv.Atoi(m[1])
		if err != nil || !p.validSemester(semester) {
			continue
		}
		name, credits, hours, ok := p.courseFields(m[2], m[3], m[4])
		if !ok || !p.isPractice(name) {
			continue
		}
		course := Course{Name: name, Credits: credits, Hours: hours, Semester: intPtr(semester)}
		subs = append(subs, SubBlock{
			Name:         name,
			Semester:     intPtr(semester),
			TotalCredits: credits,
			TotalHours:   hours,
			Stated:       true,
			Courses:      []Course{course},
		})
	}
	return subs
}

// universalSubBlocks scans a bounded window after the header so a long
// trailing span does not pull in unrelated content.
func (p *Parser) universalSubBlocks(seg Segment) []SubBlock {
	sb := SubBlock{
		Name:         p.rules.UniversalSubBlockName,
		TotalCredits: seg.Credits,
		TotalHours:   seg.Hours,
		Stated:       seg.Stated,
		Courses:      p.FindCourses(clipLines(seg.Body, p.rules.UniversalWindow)),
	}
	if !sb.Stated {
		sb.TotalCredits, sb.TotalHours = sumCourses(sb.Courses)
	}
	return []SubBlock{sb}
}

func (p *Parser) genericSubBlocks(seg Segment) []SubBlock {
	courses := p.FindCourses(seg.Body)
	if len(courses) == 0 {
		return []SubBlock{}
	}
	credits, hours := sumCourses(courses)
	return []SubBlock{{
		Name:         p.rules.GenericSubBlockName,
		TotalCredits: credits,
		TotalHours:   hours,
		Courses:      courses,
	}}
}

func (p *Parser) isPractice(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range p.practiceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func sumCourses(courses []Course) (credits, hours int) {
	for _, c := range courses {
		credits += c.Credits
		hours += c.Hours
	}
	return credits, hours
}

// clipLines cuts s to at most n runes, dropping a trailing partial line.
func clipLines(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for count := 0; count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	if i < len(s) && s[i] != '\n' {
		if nl := strings.LastIndexByte(s[:i], '\n'); nl >= 0 {
			i = nl
		} else {
			i = 0
		}
	}
	return s[:i]
}
