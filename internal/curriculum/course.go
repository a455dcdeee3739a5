package curriculum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// courseShape is one candidate layout for a course line. extract reports
// false when the match turns out to be a false positive, letting the next
// shape try.
type courseShape struct {
	name    string
	pattern *regexp.Regexp
	extract func(m []string) ([]Course, bool)
}

var (
	leadingNumbersRe = regexp.MustCompile(`^\d+(?:\s*,\s*\d+)*\s+`)
	listSeparatorRe  = regexp.MustCompile(`\s*,\s*`)
)

func (p *Parser) buildCourseShapes() []courseShape {
	bare := p.rules.MinBareNameLength - 1
	return []courseShape{
		{
			name:    "semester-list",
			pattern: regexp.MustCompile(`^(\d+(?:\s*,\s*\d+)+)\s+(\p{Lu}.+?)\s+(\d+)\s+(\d+)$`),
			extract: p.extractSemesterList,
		},
		{
			name:    "single-semester",
			pattern: regexp.MustCompile(`^(\d+)\s+(\p{Lu}.+?)\s+(\d+)\s+(\d+)$`),
			extract: p.extractSingleSemester,
		},
		{
			name:    "name-only",
			pattern: regexp.MustCompile(fmt.Sprintf(`^(\p{Lu}.{%d,}?)\s+(\d+)\s+(\d+)$`, bare)),
			extract: p.extractNameOnly,
		},
	}
}

// ParseCourseLine classifies one normalized line and returns the courses it
// encodes. A nil result means the line is not a course.
func (p *Parser) ParseCourseLine(line string) []Course {
	courses, _ := p.MatchCourseLine(line)
	return courses
}

// MatchCourseLine is ParseCourseLine that also names the shape that matched.
func (p *Parser) MatchCourseLine(line string) ([]Course, string) {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) < p.rules.MinLineLength {
		return nil, ""
	}
	if p.isHeading(line) || p.isExcluded(line) {
		return nil, ""
	}
	for _, shape := range p.courseShapes {
		m := shape.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if courses, ok := shape.extract(m); ok {
			return courses, shape.name
		}
	}
	return nil, ""
}

// FindCourses runs the course line parser over every line of a text span.
func (p *Parser) FindCourses(text string) []Course {
	courses := []Course{}
	for _, line := range NormalizeLines(text) {
		courses = append(courses, p.ParseCourseLine(line)...)
	}
	return courses
}

func (p *Parser) extractSemesterList(m []string) ([]Course, bool) {
	name, credits, hours, ok := p.courseFields(m[2], m[3], m[4])
	if !ok {
		return nil, false
	}
	courses := []Course{}
	for _, s := range listSeparatorRe.Split(m[1], -1) {
		sem, err := strconv.Atoi(s)
		if err != nil || !p.validSemester(sem) {
			continue
		}
		courses = append(courses, Course{Name: name, Credits: credits, Hours: hours, Semester: intPtr(sem)})
	}
	return courses, true
}

func (p *Parser) extractSingleSemester(m []string) ([]Course, bool) {
	sem, err := strconv.Atoi(m[1])
	if err != nil || !p.validSemester(sem) {
		return nil, false
	}
	name, credits, hours, ok := p.courseFields(m[2], m[3], m[4])
	if !ok {
		return nil, false
	}
	return []Course{{Name: name, Credits: credits, Hours: hours, Semester: intPtr(sem)}}, true
}

func (p *Parser) extractNameOnly(m []string) ([]Course, bool) {
	name, credits, hours, ok := p.courseFields(m[1], m[2], m[3])
	if !ok {
		return nil, false
	}
	return []Course{{Name: name, Credits: credits, Hours: hours}}, true
}

// courseFields cleans and validates the name/credits/hours triple.
func (p *Parser) courseFields(rawName, rawCredits, rawHours string) (string, int, int, bool) {
	name := CleanCourseName(rawName)
	credits, err := strconv.Atoi(rawCredits)
	if err != nil {
		return "", 0, 0, false
	}
	hours, err := strconv.Atoi(rawHours)
	if err != nil {
		return "", 0, 0, false
	}
	if utf8.RuneCountInString(name) < p.rules.MinNameLength || credits <= 0 || hours < 0 {
		return "", 0, 0, false
	}
	return name, credits, hours, true
}

func (p *Parser) validSemester(n int) bool {
	return n >= 1 && n <= p.rules.MaxSemester
}

// CleanCourseName collapses whitespace, drops a leading semester prefix and
// trims trailing punctuation.
func CleanCourseName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = leadingNumbersRe.ReplaceAllString(name, "")
	return strings.TrimSpace(strings.TrimRight(name, "/.,;: "))
}

func (p *Parser) isHeading(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range p.headingKeywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}

func (p *Parser) isExcluded(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range p.excludedPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// containsWord reports whether term occurs in s delimited by non-alphanumeric
// runes. regexp's \b only understands ASCII, which misses Cyrillic words.
func containsWord(s, term string) bool {
	if term == "" {
		return false
	}
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], term)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(term)
		if !wordRuneBefore(s, start) && !wordRuneAfter(s, end) {
			return true
		}
		i = start + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
