package curriculum

import (
	"strings"
	"testing"
)

func TestParseCourseLine_SingleSemester(t *testing.T) {
	p := NewParser(DefaultRules())
	courses := p.ParseCourseLine("1 Machine Learning Fundamentals 5 180")
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	c := courses[0]
	if c.Name != "Machine Learning Fundamentals" {
		t.Errorf("expected name %q, got %q", "Machine Learning Fundamentals", c.Name)
	}
	if c.Credits != 5 || c.Hours != 180 {
		t.Errorf("expected 5 credits / 180 hours, got %d / %d", c.Credits, c.Hours)
	}
	if c.Semester == nil || *c.Semester != 1 {
		t.Errorf("expected semester 1, got %v", c.Semester)
	}
}

func TestParseCourseLine_SemesterList(t *testing.T) {
	p := NewParser(DefaultRules())
	courses := p.ParseCourseLine("1, 2 Research Seminar 3 108")
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	for i, want := range []int{1, 2} {
		c := courses[i]
		if c.Semester == nil || *c.Semester != want {
			t.Errorf("course[%d]: expected semester %d, got %v", i, want, c.Semester)
		}
		if c.Name != "Research Seminar" || c.Credits != 3 || c.Hours != 108 {
			t.Errorf("course[%d]: expected Research Seminar 3/108, got %q %d/%d", i, c.Name, c.Credits, c.Hours)
		}
	}
}

func TestParseCourseLine_SemesterListDropsImplausible(t *testing.T) {
	p := NewParser(DefaultRules())
	tests := []struct {
		line string
		want []int
	}{
		{"1, 9, 12 Research Seminar 3 108", []int{1}},
		{"2,3,4 Research Seminar 3 108", []int{2, 3, 4}},
		{"0, 9 Research Seminar 3 108", nil},
		{"1, 2, 3, 4, 5, 6, 7, 8 Scientific Writing Workshop 1 36", []int{1, 2, 3, 4, 5, 6, 7, 8}},
	}
	for _, tt := range tests {
		courses, shape := p.MatchCourseLine(tt.line)
		if shape != "semester-list" {
			t.Errorf("%q: expected shape %q, got %q", tt.line, "semester-list", shape)
		}
		if len(courses) != len(tt.want) {
			t.Fatalf("%q: expected %d courses, got %d", tt.line, len(tt.want), len(courses))
		}
		for i, sem := range tt.want {
			if *courses[i].Semester != sem {
				t.Errorf("%q: course[%d] expected semester %d, got %d", tt.line, i, sem, *courses[i].Semester)
			}
			if courses[i].Name != courses[0].Name || courses[i].Credits != courses[0].Credits || courses[i].Hours != courses[0].Hours {
				t.Errorf("%q: expected identical name/credits/hours across expanded courses", tt.line)
			}
		}
	}
}

func TestParseCourseLine_NameOnly(t *testing.T) {
	p := NewParser(DefaultRules())
	courses, shape := p.MatchCourseLine("Entrepreneurial Skills Workshop 3 108")
	if shape != "name-only" {
		t.Errorf("expected shape %q, got %q", "name-only", shape)
	}
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	if courses[0].Semester != nil {
		t.Errorf("expected no semester, got %d", *courses[0].Semester)
	}
	if courses[0].Name != "Entrepreneurial Skills Workshop" {
		t.Errorf("expected name %q, got %q", "Entrepreneurial Skills Workshop", courses[0].Name)
	}
}

func TestParseCourseLine_Russian(t *testing.T) {
	p := NewParser(DefaultRules())
	courses := p.ParseCourseLine("2 Глубокое обучение 6 216")
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	if courses[0].Name != "Глубокое обучение" {
		t.Errorf("expected name %q, got %q", "Глубокое обучение", courses[0].Name)
	}
}

func TestParseCourseLine_Rejections(t *testing.T) {
	p := NewParser(DefaultRules())
	lines := []string{
		"",
		"A 1 2",
		"1 Logic 3",
		"Block 1. Disciplines (modules) 60 2160",
		"Required courses. 1 semester 15 540",
		"Course load total for the program 120 4320",
		"Name of discipline and practice 1 2",
		"Блок 1. Модули (дисциплины) 60 2160",
		"Обязательные дисциплины. 1 семестр 15 540",
		"Трудоемкость дисциплин программы 120 4320",
		"Practicum by choice of the student 6 216",
		"2 Практика по выбору 3 108",
		"Data Mining 3 108",                        // bare name shorter than 15 runes
		"9 Machine Learning Fundamentals 5 180",    // semester out of range
		"1 Machine Learning Fundamentals 0 180",    // no credits
		"1 Abc 5 180",                              // cleaned name too short
		"machine learning fundamentals course 5 180", // lower-case start
		"Introduction to the program and its goals",
	}
	for _, line := range lines {
		if courses := p.ParseCourseLine(line); len(courses) != 0 {
			t.Errorf("%q: expected no courses, got %+v", line, courses)
		}
	}
}

func TestParseCourseLine_HeadingKeywordIsWholeWord(t *testing.T) {
	p := NewParser(DefaultRules())
	// "Named" must not trip the "name" heading keyword.
	courses := p.ParseCourseLine("Named Entity Recognition Methods 3 108")
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
}

func TestParseCourseLine_ShapePriority(t *testing.T) {
	p := NewParser(DefaultRules())
	tests := []struct {
		line  string
		shape string
	}{
		{"1, 3 Research Seminar 3 108", "semester-list"},
		{"3 Research Seminar 3 108", "single-semester"},
		{"Research Seminar Advanced 3 108", "name-only"},
		{"Deep Learning 2 Applied Track 5 180", "name-only"},
		{"4 Deep Learning 2 5 180", "single-semester"},
	}
	for _, tt := range tests {
		_, shape := p.MatchCourseLine(tt.line)
		if shape != tt.shape {
			t.Errorf("%q: expected shape %q, got %q", tt.line, tt.shape, shape)
		}
	}
}

func TestParseCourseLine_ShortLineRejectedEvenIfShaped(t *testing.T) {
	rules := DefaultRules()
	rules.MinLineLength = 40
	p := NewParser(rules)
	line := "1 Machine Learning Fundamentals 5 180"
	if len(line) >= 40 {
		t.Fatalf("test line must be shorter than the limit")
	}
	if courses := p.ParseCourseLine(line); courses != nil {
		t.Errorf("expected nil for line under the minimum length, got %+v", courses)
	}
}

func TestCleanCourseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Deep   Learning /. ", "Deep Learning"},
		{"1, 2 Research Seminar", "Research Seminar"},
		{"3 Optimization Methods;", "Optimization Methods"},
		{"Plain Name", "Plain Name"},
	}
	for _, tt := range tests {
		if got := CleanCourseName(tt.in); got != tt.want {
			t.Errorf("CleanCourseName(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFindCourses_SkipsNoise(t *testing.T) {
	p := NewParser(DefaultRules())
	text := strings.Join([]string{
		"Name Semester Credits Hours",
		"1 Machine Learning Fundamentals 5 180",
		"page 3",
		"1, 2 Research Seminar 3 108",
		"Course load 8 288",
	}, "\n")
	courses := p.FindCourses(text)
	if len(courses) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(courses))
	}
}

func TestFindCourses_EmptyIsNotNil(t *testing.T) {
	p := NewParser(DefaultRules())
	if courses := p.FindCourses(""); courses == nil {
		t.Error("expected empty non-nil slice")
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		s, term string
		want    bool
	}{
		{"block 1. disciplines", "block", true},
		{"blockchain basics", "block", false},
		{"named entities", "name", false},
		{"course name", "name", true},
		{"1 семестр", "семестр", true},
		{"семестровый проект", "семестр", false},
		{"total course load", "course load", true},
		{"", "block", false},
	}
	for _, tt := range tests {
		if got := containsWord(tt.s, tt.term); got != tt.want {
			t.Errorf("containsWord(%q, %q): expected %v, got %v", tt.s, tt.term, tt.want, got)
		}
	}
}
