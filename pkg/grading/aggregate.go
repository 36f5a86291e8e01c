package grading

import (
	"math"
	"sort"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// CategoryTotals is the summed score of one active category.
type CategoryTotals struct {
	Earned     float64
	Possible   float64
	Percentage float64
}

// MaxPoints bounds earned and possible points of a single entry so category
// sums stay finite.
const MaxPoints = 1e6

// CheckEntry returns the reason an entry cannot be counted, or "" when it is valid.
func CheckEntry(entry models.AssignmentGradeEntry) string {
	switch {
	case !entry.Category.Valid():
		return "unknown category " + string(entry.Category)
	case math.IsNaN(entry.PossiblePoints) || math.IsInf(entry.PossiblePoints, 0):
		return "possible points must be finite"
	case math.IsNaN(entry.EarnedPoints) || math.IsInf(entry.EarnedPoints, 0):
		return "earned points must be finite"
	case entry.PossiblePoints <= 0:
		return "possible points must be greater than zero"
	case entry.EarnedPoints < 0:
		return "earned points must not be negative"
	case entry.PossiblePoints > MaxPoints || entry.EarnedPoints > MaxPoints:
		return "points must not exceed 1000000"
	}
	return ""
}

// SplitEntries separates valid entries from rejected ones. The error is a *ValidationError
// when at least one entry was rejected.
func SplitEntries(entries []models.AssignmentGradeEntry) ([]models.AssignmentGradeEntry, error) {
	valid := make([]models.AssignmentGradeEntry, 0, len(entries))
	var rejected []RejectedEntry
	for i, entry := range entries {
		if reason := CheckEntry(entry); reason != "" {
			rejected = append(rejected, RejectedEntry{Index: i, EntryID: entry.ID, Reason: reason})
			continue
		}
		valid = append(valid, entry)
	}
	if len(rejected) > 0 {
		return valid, &ValidationError{Rejected: rejected}
	}
	return valid, nil
}

// Aggregate sums earned and possible points per category. Only active categories are
// returned. Invalid entries are left out and reported through a *ValidationError while the
// totals of the remaining entries are still returned. A category whose percentage is not a
// finite number is dropped and its entries are reported too.
func Aggregate(entries []models.AssignmentGradeEntry) (map[models.Category]CategoryTotals, error) {
	var rejected []RejectedEntry
	sums := make(map[models.Category]CategoryTotals, len(models.Categories()))
	members := make(map[models.Category][]int, len(models.Categories()))
	for i, entry := range entries {
		if reason := CheckEntry(entry); reason != "" {
			rejected = append(rejected, RejectedEntry{Index: i, EntryID: entry.ID, Reason: reason})
			continue
		}
		t := sums[entry.Category]
		t.Earned += entry.EarnedPoints
		t.Possible += entry.PossiblePoints
		sums[entry.Category] = t
		members[entry.Category] = append(members[entry.Category], i)
	}

	active := make(map[models.Category]CategoryTotals, len(sums))
	for _, category := range models.Categories() {
		t, ok := sums[category]
		if !ok || t.Possible <= 0 {
			continue
		}
		t.Percentage = t.Earned / t.Possible * 100
		if !finite(t.Earned) || !finite(t.Possible) || !finite(t.Percentage) {
			for _, i := range members[category] {
				rejected = append(rejected, RejectedEntry{Index: i, EntryID: entries[i].ID, Reason: "category total is out of range"})
			}
			continue
		}
		active[category] = t
	}

	if len(rejected) > 0 {
		sort.SliceStable(rejected, func(a, b int) bool { return rejected[a].Index < rejected[b].Index })
		return active, &ValidationError{Rejected: rejected}
	}
	return active, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ActiveCategories lists the categories present in totals in display order.
func ActiveCategories(totals map[models.Category]CategoryTotals) []models.Category {
	active := make([]models.Category, 0, len(totals))
	for _, c := range models.Categories() {
		if _, ok := totals[c]; ok {
			active = append(active, c)
		}
	}
	return active
}
