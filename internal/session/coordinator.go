package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/profile"
	"github.com/spigell/career-compass/internal/skills"
)

const recommendationsFailed = "Failed to fetch recommendations"

// ErrSuperseded is returned when a newer request or a logout replaced this one.
var ErrSuperseded = errors.New("request superseded")

// RequestRecommendations fetches and ranks careers for p and ratings. It
// clears the previous error and sets loading first; on success the list is
// replaced whole, on failure the error is set and the old list kept. A newer
// call supersedes this one, whose result is then discarded.
func (s *Store) RequestRecommendations(ctx context.Context, p *profile.Profile, ratings []skills.Rating) error {
	tok := s.flights.Begin(ctx, CatRecommendations)
	defer s.flights.Done(tok)

	s.recsMu.Lock()
	s.recsLoading = true
	s.recsErr = ""
	s.recsMu.Unlock()

	s.logger.Debug("requesting recommendations", zap.Int("skills", skills.Count(ratings)))

	careers, err := s.backend.Recommendations(tok.Context(), backend.RecommendationRequest{
		Skills:  skills.Clone(ratings),
		Profile: p,
	})
	if err == nil {
		received := len(careers)
		careers = career.Rank(careers, s.logger)
		if received > 0 && len(careers) == 0 {
			err = backend.Malformed(backend.OpRecommendations, "none of %d recommendations has a title", received)
		}
	}

	applied := s.flights.Commit(tok, func() {
		s.recsMu.Lock()
		defer s.recsMu.Unlock()

		s.recsLoading = false
		switch {
		case err == nil:
			s.recs = careers
		case backend.IsCanceled(err):
		default:
			s.recsErr = backend.UserMessage(err, recommendationsFailed)
		}
	})
	if !applied {
		s.logger.Debug("discarding superseded recommendations")
		return ErrSuperseded
	}

	if err != nil {
		s.logger.Warn("recommendations fetch failed", zap.Error(err))
		return err
	}

	s.logger.Info("recommendations updated", zap.Int("careers", len(careers)))
	return nil
}
