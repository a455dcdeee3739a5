package curriculum

// Rules holds every keyword list and threshold the parser uses. Keyword
// matching is case-insensitive. The zero value of a field is replaced by
// the matching DefaultRules value in NewParser.
type Rules struct {
	// Program name detection
	ProgramPhrases      []string `yaml:"program_phrases"`
	FallbackProgramName string   `yaml:"fallback_program_name"`
	ProgramScanLines    int      `yaml:"program_scan_lines"`

	// Block and sub-block headers
	BlockWords      []string `yaml:"block_words"`
	UniversalStarts []string `yaml:"universal_starts"`
	UniversalEnds   []string `yaml:"universal_ends"`
	RequiredHeaders []string `yaml:"required_headers"`
	ElectiveHeaders []string `yaml:"elective_headers"`
	SemesterWords   []string `yaml:"semester_words"`

	// Line filters
	PracticeKeywords []string `yaml:"practice_keywords"`
	ExcludedPhrases  []string `yaml:"excluded_phrases"`
	HeadingKeywords  []string `yaml:"heading_keywords"`

	// Size limits, in runes
	MinLineLength     int `yaml:"min_line_length"`
	MinNameLength     int `yaml:"min_name_length"`
	MinBareNameLength int `yaml:"min_bare_name_length"`
	UniversalWindow   int `yaml:"universal_window"`

	MaxSemester int `yaml:"max_semester"`

	// Labels for sub-blocks that have no heading of their own
	GenericSubBlockName   string `yaml:"generic_sub_block_name"`
	UniversalSubBlockName string `yaml:"universal_sub_block_name"`
}

// DefaultRules covers English and Russian curriculum layouts.
func DefaultRules() Rules {
	return Rules{
		ProgramPhrases:      []string{"artificial intelligence", "искусственный интеллект"},
		FallbackProgramName: "Study program",
		ProgramScanLines:    10,

		BlockWords:      []string{"Block", "Блок"},
		UniversalStarts: []string{"Universal", "Универсальная"},
		UniversalEnds:   []string{"training", "подготовка"},
		RequiredHeaders: []string{"Required courses", "Обязательные дисциплины"},
		ElectiveHeaders: []string{"Elective pool", "Пул выборных дисциплин"},
		SemesterWords:   []string{"semester", "семестр"},

		PracticeKeywords: []string{"practicum", "practice", "internship", "thesis", "практика", "работа", "вкр"},
		ExcludedPhrases:  []string{"elective practicum", "practicum by choice", "практика по выбору"},
		HeadingKeywords: []string{
			"block", "semester", "semesters", "course load", "name",
			"блок", "семестр", "семестра", "семестре", "семестры", "трудоемкость", "наименование",
		},

		MinLineLength:     10,
		MinNameLength:     5,
		MinBareNameLength: 15,
		UniversalWindow:   2000,

		MaxSemester: 8,

		GenericSubBlockName:   "Courses",
		UniversalSubBlockName: "Universal courses",
	}
}

// withDefaults fills zero-valued fields from DefaultRules.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	fillStrings(&r.ProgramPhrases, d.ProgramPhrases)
	fillString(&r.FallbackProgramName, d.FallbackProgramName)
	fillInt(&r.ProgramScanLines, d.ProgramScanLines)

	fillStrings(&r.BlockWords, d.BlockWords)
	fillStrings(&r.UniversalStarts, d.UniversalStarts)
	fillStrings(&r.UniversalEnds, d.UniversalEnds)
	fillStrings(&r.RequiredHeaders, d.RequiredHeaders)
	fillStrings(&r.ElectiveHeaders, d.ElectiveHeaders)
	fillStrings(&r.SemesterWords, d.SemesterWords)

	fillStrings(&r.PracticeKeywords, d.PracticeKeywords)
	fillStrings(&r.ExcludedPhrases, d.ExcludedPhrases)
	fillStrings(&r.HeadingKeywords, d.HeadingKeywords)

	fillInt(&r.MinLineLength, d.MinLineLength)
	fillInt(&r.MinNameLength, d.MinNameLength)
	fillInt(&r.MinBareNameLength, d.MinBareNameLength)
	fillInt(&r.UniversalWindow, d.UniversalWindow)
	fillInt(&r.MaxSemester, d.MaxSemester)

	fillString(&r.GenericSubBlockName, d.GenericSubBlockName)
	fillString(&r.UniversalSubBlockName, d.UniversalSubBlockName)
	return r
}

func fillStrings(dst *[]string, def []string) {
	if len(*dst) == 0 {
		*dst = def
	}
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func fillInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}
