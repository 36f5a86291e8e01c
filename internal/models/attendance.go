package models

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "H"
	AttendanceStatusSick    AttendanceStatus = "S"
	AttendanceStatusExcused AttendanceStatus = "I"
	AttendanceStatusAbsent  AttendanceStatus = "A"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusSick, AttendanceStatusExcused, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// AttendanceCounts holds pre-aggregated attendance days for a student.
type AttendanceCounts struct {
	Present int `json:"present"`
	Sick    int `json:"sick"`
	Excused int `json:"excused"`
	Absent  int `json:"absent"`
}

// Total returns the number of recorded days.
func (c AttendanceCounts) Total() int {
	return c.Present + c.Sick + c.Excused + c.Absent
}

// Add increments the counter matching status by n. Unknown statuses are ignored.
func (c *AttendanceCounts) Add(status AttendanceStatus, n int) {
	switch status {
	case AttendanceStatusPresent:
		c.Present += n
	case AttendanceStatusSick:
		c.Sick += n
	case AttendanceStatusExcused:
		c.Excused += n
	case AttendanceStatusAbsent:
		c.Absent += n
	}
}

// AttendanceSummary pairs raw counts with the derived rate.
type AttendanceSummary struct {
	AttendanceCounts
	TotalDays int     `json:"total_days"`
	Rate      float64 `json:"rate"`
}
