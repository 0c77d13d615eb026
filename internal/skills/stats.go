package skills

import "math"

// StrongLevel is the level from which a skill counts as a strength on the dashboard.
const StrongLevel = 8

// Summary aggregates the inventory for the dashboard.
type Summary struct {
	Total   int
	Average float64
	Strong  int
}

// Summarize computes the total number of rated skills, their average level
// rounded to one decimal and the number of skills at StrongLevel or above.
func Summarize(ratings []Rating) Summary {
	var summary Summary
	sum := 0

	for _, rating := range ratings {
		for _, skill := range rating.Skills {
			summary.Total++
			sum += skill.Level
			if skill.Level >= StrongLevel {
				summary.Strong++
			}
		}
	}

	if summary.Total > 0 {
		summary.Average = math.Round(float64(sum)/float64(summary.Total)*10) / 10
	}

	return summary
}
