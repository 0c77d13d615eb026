package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/parser"
)

const (
	certificationsFailed = "Failed to fetch certifications"
	jobListingsFailed    = "Failed to fetch job listings"
)

func (s *Store) Certifications() ToolState { return s.certs.get() }
func (s *Store) JobListings() ToolState    { return s.jobs.get() }

// FetchCertifications asks for certifications that close the gap between
// the user's skills and careerTitle.
func (s *Store) FetchCertifications(ctx context.Context, careerTitle string) error {
	careerTitle = strings.TrimSpace(careerTitle)
	if careerTitle == "" {
		return ErrEmptyInput
	}

	return s.fetchList(ctx, CatCertifications, &s.certs, careerTitle, certificationsFailed, func(ctx context.Context) (string, error) {
		return s.backend.Certifications(ctx, backend.CertificationRequest{CareerTitle: careerTitle, Skills: s.Skills()})
	})
}

// FetchJobListings asks for job-portal searches for role in location.
func (s *Store) FetchJobListings(ctx context.Context, role, location string) error {
	role = strings.TrimSpace(role)
	location = strings.TrimSpace(location)
	if role == "" || location == "" {
		return ErrEmptyInput
	}

	subject := role + " in " + location
	return s.fetchList(ctx, CatJobListings, &s.jobs, subject, jobListingsFailed, func(ctx context.Context) (string, error) {
		return s.backend.JobListings(ctx, backend.JobListingRequest{Role: role, Location: location})
	})
}

// fetchList runs one numbered-list request for slot, superseding any
// earlier request of the same category.
func (s *Store) fetchList(ctx context.Context, category Category, slot *toolSlot, subject, fallback string, fetch func(context.Context) (string, error)) error {
	tok := s.flights.Begin(ctx, category)
	defer s.flights.Done(tok)

	s.flights.Commit(tok, func() {
		slot.update(func(st *ToolState) {
			st.Subject = subject
			st.Loading = true
			st.Error = ""
		})
	})

	text, err := fetch(tok.Context())

	var items []parser.Item
	if err == nil {
		items = parser.ParseList(text)
	}

	applied := s.flights.Commit(tok, func() {
		slot.update(func(st *ToolState) {
			st.Loading = false
			switch {
			case err == nil:
				st.Items = items
			case backend.IsCanceled(err):
			default:
				st.Error = backend.UserMessage(err, fallback)
			}
		})
	})
	if !applied {
		s.logger.Debug("discarding stale hub response", zap.String("category", string(category)))
		return ErrSuperseded
	}
	if err != nil {
		s.logger.Warn("hub request failed", zap.String("category", string(category)), zap.Error(err))
		return err
	}
	return nil
}

// StartInterview loads a question set for role, superseding a pending load.
func (s *Store) StartInterview(ctx context.Context, role string) error {
	tok := s.flights.Begin(ctx, CatInterview)
	defer s.flights.Done(tok)
	return s.interview.Start(tok.Context(), role)
}

// SendChat runs one chat exchange. Exchanges queue behind each other and are
// canceled when the chat view is left.
func (s *Store) SendChat(ctx context.Context, text string) error {
	tok := s.flights.Join(ctx, CatChat)
	defer s.flights.Done(tok)
	return s.chat.Send(tok.Context(), text)
}

func (s *Store) GenerateSummary(ctx context.Context) (string, error) {
	tok := s.flights.Join(ctx, CatResume)
	defer s.flights.Done(tok)
	return s.resume.GenerateSummary(tok.Context())
}

func (s *Store) GenerateResumeHTML(ctx context.Context) (string, error) {
	tok := s.flights.Join(ctx, CatResume)
	defer s.flights.Done(tok)
	return s.resume.GenerateHTML(tok.Context())
}

func (s *Store) ExportResumePDF(ctx context.Context) ([]byte, error) {
	tok := s.flights.Join(ctx, CatResume)
	defer s.flights.Done(tok)
	return s.resume.ExportPDF(tok.Context())
}

// FinishResume merges the last step and renders the résumé.
func (s *Store) FinishResume(ctx context.Context, values map[string]any) error {
	tok := s.flights.Join(ctx, CatResume)
	defer s.flights.Done(tok)
	return s.resume.Finish(tok.Context(), values)
}
