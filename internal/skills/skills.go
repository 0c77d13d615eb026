// Package skills holds the self-rated skill inventory collected by the
// assessment wizard and the lenient matcher used for skill-gap display.
package skills

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinLevel     = 1
	MaxLevel     = 10
	DefaultLevel = 5
)

var (
	ErrUnknownSkill   = errors.New("unknown skill")
	ErrDuplicateSkill = errors.New("duplicate skill name")
)

// Skill is a single rated skill.
type Skill struct {
	Name  string `json:"name" mapstructure:"name"`
	Level int    `json:"level" mapstructure:"level"`
}

// Rating is a category label plus its ordered rated skills.
// Skill names are unique within a category.
type Rating struct {
	Category string  `json:"category" mapstructure:"category"`
	Skills   []Skill `json:"skills" mapstructure:"skills"`
}

// Clamp bounds level to [MinLevel, MaxLevel].
func Clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// NewRating creates a category with every skill at DefaultLevel.
func NewRating(category string, names ...string) (Rating, error) {
	rating := Rating{Category: category, Skills: make([]Skill, 0, len(names))}
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok {
			return Rating{}, fmt.Errorf("%w: %q in %q", ErrDuplicateSkill, name, category)
		}
		seen[key] = struct{}{}
		rating.Skills = append(rating.Skills, Skill{Name: name, Level: DefaultLevel})
	}

	return rating, nil
}

// Set updates the level of the named skill in place, clamping it to the valid range.
func (r *Rating) Set(name string, level int) error {
	for i := range r.Skills {
		if r.Skills[i].Name == name {
			r.Skills[i].Level = Clamp(level)
			return nil
		}
	}

	return fmt.Errorf("%w: %q in %q", ErrUnknownSkill, name, r.Category)
}

// Level returns the level of the named skill.
func (r Rating) Level(name string) (int, bool) {
	for _, skill := range r.Skills {
		if skill.Name == name {
			return skill.Level, true
		}
	}
	return 0, false
}

// Names lists the skill names in order.
func (r Rating) Names() []string {
	names := make([]string, 0, len(r.Skills))
	for _, skill := range r.Skills {
		names = append(names, skill.Name)
	}
	return names
}

// Clone deep-copies the inventory so callers can mutate it without
// affecting the original.
func Clone(ratings []Rating) []Rating {
	if ratings == nil {
		return nil
	}

	out := make([]Rating, len(ratings))
	for i, rating := range ratings {
		out[i] = Rating{Category: rating.Category, Skills: append([]Skill(nil), rating.Skills...)}
	}
	return out
}

// Count returns the total number of rated skills across categories.
func Count(ratings []Rating) int {
	total := 0
	for _, rating := range ratings {
		total += len(rating.Skills)
	}
	return total
}
