package session

import (
	"errors"
	"strings"

	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/skills"
)

var ErrUnknownCareer = errors.New("unknown career")

// Stats is the dashboard summary.
type Stats struct {
	UserName        string
	HasProfile      bool
	Skills          skills.Summary
	Recommendations int
	Best            *career.Career
}

func (s *Store) Stats() Stats {
	stats := Stats{
		UserName:   s.User().Name,
		HasProfile: s.Profile() != nil,
		Skills:     skills.Summarize(s.Skills()),
	}

	recs := s.Recommendations()
	stats.Recommendations = len(recs)
	if best, ok := career.Best(recs); ok {
		stats.Best = &best
	}
	return stats
}

// Career finds a recommendation by id or, failing that, case-insensitive title.
func (s *Store) Career(key string) (career.Career, error) {
	recs := s.Recommendations()
	for _, c := range recs {
		if c.ID == key {
			return c, nil
		}
	}
	for _, c := range recs {
		if strings.EqualFold(c.Title, key) {
			return c, nil
		}
	}
	return career.Career{}, ErrUnknownCareer
}

// GapReport scores every key skill of the career against the user's ratings.
func (s *Store) GapReport(key string) ([]skills.Gap, error) {
	c, err := s.Career(key)
	if err != nil {
		return nil, err
	}
	return skills.Analyze(c.KeySkills, s.Skills()), nil
}
