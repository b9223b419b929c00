package v1

import (
	"sort"
	"time"

	"github.com/duynhne/jobs-service/internal/core/domain"
)

// statsMonths is how many of the most recent active months are reported.
const statsMonths = 6

const monthLabelLayout = "Jan 2006"

// summarizeStatus folds grouped counts into the fixed dashboard shape.
// Statuses outside the known three are dropped.
func summarizeStatus(counts []domain.StatusCount) domain.DefaultStats {
	var stats domain.DefaultStats
	for _, c := range counts {
		switch domain.JobStatus(c.Status) {
		case domain.StatusInterview:
			stats.Interview += c.Count
		case domain.StatusPending:
			stats.Pending += c.Count
		case domain.StatusDeclined:
			stats.Declined += c.Count
		}
	}
	return stats
}

// summarizeMonthly keeps the most recent statsMonths groups and returns
// them labelled in ascending chronological order.
func summarizeMonthly(counts []domain.MonthlyCount) []domain.MonthlyApplications {
	sorted := make([]domain.MonthlyCount, len(counts))
	copy(sorted, counts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].Month > sorted[j].Month
	})
	if len(sorted) > statsMonths {
		sorted = sorted[:statsMonths]
	}

	out := make([]domain.MonthlyApplications, len(sorted))
	for i, c := range sorted {
		label := time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC).Format(monthLabelLayout)
		out[len(sorted)-1-i] = domain.MonthlyApplications{Date: label, Count: c.Count}
	}
	return out
}
