// Package advisor answers advisory requests in-process by prompting an AI
// generator. It satisfies backend.Backend so the engine can run without the
// remote advisory service.
package advisor

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/ai"
	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/logger"
	"github.com/spigell/career-compass/internal/profile"
	"github.com/spigell/career-compass/internal/skills"
)

const (
	DefaultQuestions    = 10
	defaultMaxLogLength = 200
)

//go:embed prompts/*.md
var promptFS embed.FS

// PDFRenderer prints an HTML document to PDF.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

type Advisor struct {
	generator ai.Generator
	pdf       PDFRenderer
	questions int
	maxLogLen int
	logger    *zap.Logger
}

var _ backend.Backend = (*Advisor)(nil)

// New returns an Advisor. A nil pdf renderer disables PDF export.
func New(generator ai.Generator, pdf PDFRenderer, questions int, log *zap.Logger) *Advisor {
	if questions <= 0 {
		questions = DefaultQuestions
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Advisor{
		generator: generator,
		pdf:       pdf,
		questions: questions,
		maxLogLen: defaultMaxLogLength,
		logger:    log,
	}
}

func (a *Advisor) Recommendations(ctx context.Context, req backend.RecommendationRequest) ([]career.Career, error) {
	op := backend.OpRecommendations
	if skills.Count(req.Skills) == 0 {
		return nil, rejected(op, "No skills data provided")
	}

	prompt := fill(mustPrompt("recommendations.md"), map[string]string{
		"SKILLS":  describeSkills(req.Skills),
		"PROFILE": describeProfile(req.Profile),
	})

	raw, err := a.generate(ctx, op, "", prompt)
	if err != nil {
		return nil, err
	}

	cleaned := extractJSON(raw)
	if err := backend.ValidateResponse(op, []byte(cleaned)); err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, backend.Malformed(op, "parse generated json: %v", err)
	}

	careers, err := career.Decode(payload)
	if err != nil {
		return nil, backend.Malformed(op, "%v", err)
	}

	return careers, nil
}

func (a *Advisor) Certifications(ctx context.Context, req backend.CertificationRequest) (string, error) {
	op := backend.OpCertifications
	if strings.TrimSpace(req.CareerTitle) == "" {
		return "", rejected(op, "Career title is required")
	}

	prompt := fill(mustPrompt("certifications.md"), map[string]string{
		"SKILLS":       strings.Join(skillNames(req.Skills), ", "),
		"CAREER_TITLE": req.CareerTitle,
	})

	return a.generate(ctx, op, "", prompt)
}

func (a *Advisor) JobListings(ctx context.Context, req backend.JobListingRequest) (string, error) {
	op := backend.OpJobListings
	if strings.TrimSpace(req.Role) == "" || strings.TrimSpace(req.Location) == "" {
		return "", rejected(op, "Role and location are required")
	}

	prompt := fill(mustPrompt("job_listings.md"), map[string]string{
		"ROLE":     req.Role,
		"LOCATION": req.Location,
	})

	return a.generate(ctx, op, "", prompt)
}

func (a *Advisor) Chat(ctx context.Context, req backend.ChatRequest) (string, error) {
	op := backend.OpChat
	if strings.TrimSpace(req.Message) == "" {
		return "", rejected(op, "No message provided")
	}

	return a.generate(ctx, op, mustPrompt("chat.md"), req.Message)
}

func (a *Advisor) InterviewQuestions(ctx context.Context, req backend.InterviewRequest) (*backend.InterviewSet, error) {
	op := backend.OpInterview
	if strings.TrimSpace(req.Role) == "" {
		return nil, rejected(op, "Role is required")
	}

	count := req.Count
	if count <= 0 {
		count = a.questions
	}

	prompt := fill(mustPrompt("interview.md"), map[string]string{
		"ROLE":  req.Role,
		"COUNT": strconv.Itoa(count),
	})

	raw, err := a.generate(ctx, op, "", prompt)
	if err != nil {
		return nil, err
	}

	set, err := parseInterview(raw)
	if err != nil {
		return nil, backend.Malformed(op, "%v", err)
	}

	return set, nil
}

func (a *Advisor) ResumeSummary(ctx context.Context, req backend.SummaryRequest) (string, error) {
	op := backend.OpResumeSummary
	if strings.TrimSpace(req.WorkExperienceText) == "" {
		return "", rejected(op, "Work experience is required")
	}

	prompt := fill(mustPrompt("summary.md"), map[string]string{"EXPERIENCE": req.WorkExperienceText})

	return a.generate(ctx, op, "", prompt)
}

func (a *Advisor) ResumeHTML(_ context.Context, data backend.ResumeData) (string, error) {
	html, err := RenderHTML(data)
	if err != nil {
		return "", &backend.Error{Op: backend.OpResumeHTML, Kind: backend.KindBackend, Message: fmt.Sprintf("HTML Generation Failed: %v", err), Err: err}
	}
	return html, nil
}

func (a *Advisor) ResumePDF(ctx context.Context, data backend.ResumeData) ([]byte, error) {
	op := backend.OpResumePDF
	if a.pdf == nil {
		return nil, rejected(op, "PDF Generation Failed: no PDF renderer configured")
	}

	html, err := RenderHTML(data)
	if err != nil {
		return nil, &backend.Error{Op: op, Kind: backend.KindBackend, Message: fmt.Sprintf("PDF Generation Failed: %v", err), Err: err}
	}

	pdf, err := a.pdf.Render(ctx, html)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backend.NewError(op, backend.KindCanceled, ctx.Err())
		}
		return nil, &backend.Error{Op: op, Kind: backend.KindBackend, Message: fmt.Sprintf("PDF Generation Failed: %v", err), Err: err}
	}
	if !backend.IsPDF(pdf) {
		return nil, backend.Malformed(op, "renderer did not produce a PDF document")
	}

	return pdf, nil
}

// generate runs one prompt and maps generator failures onto the backend taxonomy.
func (a *Advisor) generate(ctx context.Context, op, system, message string) (string, error) {
	if a.generator == nil {
		return "", rejected(op, "No AI generator configured")
	}

	log := a.logger.With(zap.String(logger.FieldOperation, op), zap.String(logger.FieldModel, a.generator.Model()))
	log.Debug("advisor prompt",
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", logger.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, system, message)
	if err != nil {
		if ctx.Err() != nil {
			return "", backend.NewError(op, backend.KindCanceled, ctx.Err())
		}
		log.Warn("advisor generation failed", zap.Error(err))
		return "", &backend.Error{
			Op:      op,
			Kind:    backend.KindBackend,
			Message: "Sorry, I am having trouble generating a response right now.",
			Err:     err,
		}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", backend.Malformed(op, "empty generation")
	}

	log.Debug("advisor response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return raw, nil
}

func rejected(op, message string) *backend.Error {
	return &backend.Error{Op: op, Kind: backend.KindBackend, Message: message}
}

func mustPrompt(name string) string {
	data, err := promptFS.ReadFile("prompts/" + name)
	if err != nil {
		panic(fmt.Sprintf("advisor: missing prompt %s: %v", name, err))
	}
	return string(data)
}

func fill(tmpl string, values map[string]string) string {
	for key, value := range values {
		tmpl = strings.ReplaceAll(tmpl, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(tmpl)
}

func describeSkills(ratings []skills.Rating) string {
	lines := make([]string, 0, len(ratings))
	for _, rating := range ratings {
		parts := make([]string, 0, len(rating.Skills))
		for _, skill := range rating.Skills {
			parts = append(parts, fmt.Sprintf("%s (Level: %d/10)", skill.Name, skill.Level))
		}
		lines = append(lines, fmt.Sprintf("  - %s: %s", rating.Category, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}

func describeProfile(p *profile.Profile) string {
	if p == nil {
		return "  (not provided)"
	}

	lines := []string{
		fmt.Sprintf("  - Age: %d", p.Age),
		fmt.Sprintf("  - Education: %s", p.Education),
	}
	if p.Location != "" {
		lines = append(lines, fmt.Sprintf("  - Location: %s", p.Location))
	}
	lines = append(lines,
		fmt.Sprintf("  - Interests: %s", strings.Join(p.Interests, ", ")),
		fmt.Sprintf("  - Strengths: %s", strings.Join(p.Strengths, ", ")),
		fmt.Sprintf("  - Preferred industries: %s", strings.Join(p.PreferredIndustries, ", ")),
	)
	return strings.Join(lines, "\n")
}

func skillNames(ratings []skills.Rating) []string {
	names := make([]string, 0, skills.Count(ratings))
	for _, rating := range ratings {
		names = append(names, rating.Names()...)
	}
	return names
}
