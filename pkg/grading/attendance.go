package grading

import "github.com/noah-isme/sma-standing-api/internal/models"

// AttendanceRate returns (present + excused) / total * 100. Sick days count as excused.
// With no recorded days the rate is 100.
func AttendanceRate(c models.AttendanceCounts) float64 {
	total := c.Total()
	if total <= 0 {
		return 100
	}
	return float64(c.Present+c.Excused+c.Sick) / float64(total) * 100
}

// SummarizeAttendance pairs counts with their rate.
func SummarizeAttendance(c models.AttendanceCounts) models.AttendanceSummary {
	return models.AttendanceSummary{AttendanceCounts: c, TotalDays: c.Total(), Rate: AttendanceRate(c)}
}
