package session

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/spigell/career-compass/internal/skills"
	"github.com/spigell/career-compass/internal/wizard"
)

// newSkillsWizard builds the assessment wizard: one step per catalogue
// category, one field per skill.
func newSkillsWizard(finalize wizard.FinalizeFunc[[]skills.Rating]) *wizard.Wizard[[]skills.Rating] {
	steps := make([]wizard.Step, 0, len(skills.Catalogue))
	for _, category := range skills.Catalogue {
		steps = append(steps, wizard.Step{Name: category.Name, Fields: category.Skills})
	}

	// Catalogue skill names are unique across categories.
	w, _ := wizard.New(steps, skills.Defaults(), mergeLevels, finalize)
	return w
}

// mergeLevels applies skill-name to level values to a copy of draft.
func mergeLevels(draft []skills.Rating, values map[string]any) ([]skills.Rating, error) {
	out := skills.Clone(draft)

	for name, raw := range values {
		level, err := toLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("level for %q: %w", name, err)
		}

		found := false
		for i := range out {
			if _, ok := out[i].Level(name); ok {
				if err := out[i].Set(name, level); err != nil {
					return nil, err
				}
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", skills.ErrUnknownSkill, name)
		}
	}

	return out, nil
}

func toLevel(v any) (int, error) {
	switch t := v.(type) {
	case string:
		// Decimal only: "08" is 8, not an invalid octal.
		return strconv.Atoi(strings.TrimSpace(t))
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("level %v is not a whole number", t)
		}
	}
	return cast.ToIntE(v)
}

// SkillsWizard is the assessment wizard. Leaving its last step with Finish
// submits the ratings.
func (s *Store) SkillsWizard() *wizard.Wizard[[]skills.Rating] {
	return s.skillsWizard
}

// finishSkills stores the ratings, switches to the careers tab and fetches
// recommendations.
func (s *Store) finishSkills(ctx context.Context, ratings []skills.Rating) error {
	s.skillsMu.Lock()
	s.skills = skills.Clone(ratings)
	s.skillsMu.Unlock()

	s.recsMu.Lock()
	s.recsLoading = true
	s.recsErr = ""
	s.recsMu.Unlock()
	s.setTab(TabCareers)

	return s.RequestRecommendations(ctx, s.Profile(), ratings)
}
