package models

// LetterGrade is a letter band. LetterGradeNone means no grade can be computed yet.
type LetterGrade string

const (
	LetterGradeNone   LetterGrade = ""
	LetterGradeA      LetterGrade = "A"
	LetterGradeAMinus LetterGrade = "A-"
	LetterGradeBPlus  LetterGrade = "B+"
	LetterGradeB      LetterGrade = "B"
	LetterGradeBMinus LetterGrade = "B-"
	LetterGradeCPlus  LetterGrade = "C+"
	LetterGradeC      LetterGrade = "C"
	LetterGradeCMinus LetterGrade = "C-"
	LetterGradeDPlus  LetterGrade = "D+"
	LetterGradeD      LetterGrade = "D"
	LetterGradeF      LetterGrade = "F"
)

// Display renders the letter, substituting the no-grade placeholder.
func (l LetterGrade) Display() string {
	if l == LetterGradeNone {
		return "No grade yet"
	}
	return string(l)
}

// Trend is the direction of recent performance in a course.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// StandingStatus is a display bucket derived from a percentage.
type StandingStatus string

const (
	StandingStatusNone      StandingStatus = ""
	StandingStatusExcellent StandingStatus = "Excellent"
	StandingStatusGood      StandingStatus = "Good"
	StandingStatusFair      StandingStatus = "Fair"
	StandingStatusAtRisk    StandingStatus = "At Risk"
)

// CategoryBreakdown summarises one active category of a course.
type CategoryBreakdown struct {
	Category         Category `json:"category"`
	TotalEarned      float64  `json:"total_earned"`
	TotalPossible    float64  `json:"total_possible"`
	Percentage       float64  `json:"percentage"`
	ConfiguredWeight float64  `json:"configured_weight"`
	EffectiveWeight  float64  `json:"effective_weight"`
}

// CourseGradeResult is the computed standing of one course.
type CourseGradeResult struct {
	CourseID          string              `json:"course_id"`
	CourseName        string              `json:"course_name,omitempty"`
	CreditHours       float64             `json:"credit_hours,omitempty"`
	OverallPercentage float64             `json:"overall_percentage"`
	LetterGrade       LetterGrade         `json:"letter_grade,omitempty"`
	Status            StandingStatus      `json:"status,omitempty"`
	Trend             Trend               `json:"trend"`
	Breakdowns        []CategoryBreakdown `json:"breakdowns"`
	HasData           bool                `json:"has_data"`
	EntryCount        int                 `json:"entry_count"`
	RejectedEntries   int                 `json:"rejected_entries,omitempty"`
}

// GPASummary aggregates every course with data.
type GPASummary struct {
	WeightedAveragePercent float64        `json:"weighted_average_percent"`
	GPA                    float64        `json:"gpa"`
	OverallLetterGrade     LetterGrade    `json:"overall_letter_grade,omitempty"`
	Status                 StandingStatus `json:"status,omitempty"`
	CourseCount            int            `json:"course_count"`
	CreditWeighted         bool           `json:"credit_weighted"`
}
