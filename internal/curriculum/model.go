package curriculum

// BlockKind selects the extraction strategy used for a block's content.
type BlockKind string

const (
	KindDiscipline BlockKind = "discipline"
	KindPractice   BlockKind = "practice"
	KindUniversal  BlockKind = "universal"
	KindGeneric    BlockKind = "generic"
)

// Document is the root of a parsed curriculum.
type Document struct {
	ProgramName  string  `json:"program_name"`
	Blocks       []Block `json:"blocks"`
	TotalCredits int     `json:"total_credits"`
	TotalCourses int     `json:"total_courses"`
}

// Block is a top-level curriculum division.
type Block struct {
	Name         string     `json:"name"`
	Number       *int       `json:"block_number"`
	Kind         BlockKind  `json:"kind"`
	TotalCredits int        `json:"total_credits"`
	TotalHours   int        `json:"total_hours"`
	Stated       bool       `json:"stated"` // totals read from the document, not summed
	SubBlocks    []SubBlock `json:"sub_blocks"`
}

// SubBlock is a semester or category subdivision of a Block.
type SubBlock struct {
	Name         string   `json:"name"`
	Semester     *int     `json:"semester"`
	TotalCredits int      `json:"total_credits"`
	TotalHours   int      `json:"total_hours"`
	Stated       bool     `json:"stated"`
	Courses      []Course `json:"courses"`
}

// Course is one scheduled unit of study. A course listed for several
// semesters is represented by one Course per semester.
type Course struct {
	Name     string `json:"name"`
	Credits  int    `json:"credits"`
	Hours    int    `json:"hours"`
	Semester *int   `json:"semester"`
}

// CourseCount returns the number of courses across all sub-blocks.
func (b Block) CourseCount() int {
	n := 0
	for _, sb := range b.SubBlocks {
		n += len(sb.Courses)
	}
	return n
}

// Aggregate sums block credits and counts courses across the tree.
func Aggregate(blocks []Block) (credits, courses int) {
	for _, b := range blocks {
		credits += b.TotalCredits
		courses += b.CourseCount()
	}
	return credits, courses
}

func intPtr(n int) *int {
	return &n
}
