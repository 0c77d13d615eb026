package skills

import (
	"strings"
	"unicode"
)

// GapThreshold is the proficiency percentage under which a required skill is a gap.
const GapThreshold = 70

// Proficiency scores a required skill label against the inventory and returns
// a percentage in [0,100].
//
// Matching is deliberately lenient: a case-insensitive substring relation in
// either direction counts, and slash-separated alternatives in a rated name
// ("Programming/Coding") match as whole words. The first match wins and
// scores level*10. Loosely worded AI skill names therefore get coverage at
// the cost of false positives, e.g. "Data" relates to both "Data Analysis"
// and "Database Management".
func Proficiency(required string, inventory []Rating) int {
	req := normalize(required)
	if req == "" {
		return 0
	}

	for _, rating := range inventory {
		for _, skill := range rating.Skills {
			if matches(req, skill.Name) {
				return Clamp(skill.Level) * 10
			}
		}
	}

	return 0
}

// IsGap reports whether score falls under GapThreshold.
func IsGap(score int) bool {
	return score < GapThreshold
}

// Gap is the proficiency of one required skill.
type Gap struct {
	Skill       string
	Proficiency int
	Gap         bool
}

// Analyze scores every required skill, preserving order.
func Analyze(required []string, inventory []Rating) []Gap {
	gaps := make([]Gap, 0, len(required))
	for _, skill := range required {
		score := Proficiency(skill, inventory)
		gaps = append(gaps, Gap{Skill: skill, Proficiency: score, Gap: IsGap(score)})
	}
	return gaps
}

func matches(required, ratedName string) bool {
	rated := normalize(ratedName)
	if rated == "" {
		return false
	}

	if strings.Contains(required, rated) || strings.Contains(rated, required) {
		return true
	}

	if !strings.Contains(rated, "/") {
		return false
	}

	for _, alt := range strings.Split(rated, "/") {
		if containsWords(required, alt) || containsWords(alt, required) {
			return true
		}
	}

	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// containsWords reports whether needle appears in haystack as a run of whole words.
func containsWords(haystack, needle string) bool {
	n := words(needle)
	if n == "" {
		return false
	}
	return strings.Contains(" "+words(haystack)+" ", " "+n+" ")
}

func words(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
