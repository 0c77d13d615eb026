package career

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is a single named stage of the ranking pipeline.
type Step interface {
	Name() string
	Apply(careers []Career) ([]Career, Stats)
}

// Stats describes the result of executing a ranking step.
type Stats struct {
	Initial int
	Dropped int
	Left    int
}

// DefaultSteps is the pipeline applied to every recommendation list.
func DefaultSteps() []Step {
	return []Step{
		dropUntitled{},
		clampScores{},
		assignIDs{newID: uuid.NewString},
		dedupeByTitle{},
		orderByMatch{},
	}
}

// Rank runs the default pipeline and returns a fresh slice. The input is not modified.
func Rank(careers []Career, logger *zap.Logger) []Career {
	return Run(DefaultSteps(), careers, logger)
}

// Run executes the supplied steps sequentially, logging per-step counts.
func Run(steps []Step, careers []Career, logger *zap.Logger) []Career {
	out := append([]Career(nil), careers...)

	for _, step := range steps {
		var stats Stats
		out, stats = step.Apply(out)

		if logger != nil {
			logger.Debug("ranking step",
				zap.String("name", step.Name()),
				zap.Int("initial", stats.Initial),
				zap.Int("dropped", stats.Dropped),
				zap.Int("left", stats.Left),
			)
		}
	}

	return out
}

// Best returns the top-ranked career.
func Best(careers []Career) (Career, bool) {
	if len(careers) == 0 {
		return Career{}, false
	}
	return careers[0], true
}

type dropUntitled struct{}

func (dropUntitled) Name() string { return "drop_untitled" }

func (dropUntitled) Apply(careers []Career) ([]Career, Stats) {
	kept := careers[:0]
	for _, c := range careers {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		kept = append(kept, c)
	}
	return kept, Stats{Initial: len(careers), Dropped: len(careers) - len(kept), Left: len(kept)}
}

type clampScores struct{}

func (clampScores) Name() string { return "clamp_scores" }

func (clampScores) Apply(careers []Career) ([]Career, Stats) {
	for i := range careers {
		careers[i].MatchScore = clamp(careers[i].MatchScore, 0, 100)
		careers[i].WorkLifeBalance = clamp(careers[i].WorkLifeBalance, 0, 10)
	}
	return careers, Stats{Initial: len(careers), Left: len(careers)}
}

type assignIDs struct {
	newID func() string
}

func (assignIDs) Name() string { return "assign_ids" }

func (s assignIDs) Apply(careers []Career) ([]Career, Stats) {
	for i := range careers {
		if strings.TrimSpace(careers[i].ID) == "" {
			careers[i].ID = s.newID()
		}
	}
	return careers, Stats{Initial: len(careers), Left: len(careers)}
}

// dedupeByTitle keeps the first occurrence of every case-insensitive title.
type dedupeByTitle struct{}

func (dedupeByTitle) Name() string { return "dedupe_by_title" }

func (dedupeByTitle) Apply(careers []Career) ([]Career, Stats) {
	seen := make(map[string]struct{}, len(careers))
	kept := make([]Career, 0, len(careers))

	for _, c := range careers {
		key := strings.ToLower(strings.TrimSpace(c.Title))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, c)
	}

	return kept, Stats{Initial: len(careers), Dropped: len(careers) - len(kept), Left: len(kept)}
}

type orderByMatch struct{}

func (orderByMatch) Name() string { return "order_by_match" }

func (orderByMatch) Apply(careers []Career) ([]Career, Stats) {
	sort.SliceStable(careers, func(i, j int) bool {
		return careers[i].MatchScore > careers[j].MatchScore
	})
	return careers, Stats{Initial: len(careers), Left: len(careers)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
