// Package backend is the boundary to the advisory inference service. The
// HTTP Client talks to the remote service; other implementations (see
// internal/advisor) satisfy the same Backend interface in-process.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/profile"
	"github.com/spigell/career-compass/internal/skills"
)

// Operation names used in errors and logs.
const (
	OpRecommendations = "recommendations"
	OpCertifications  = "certifications"
	OpJobListings     = "job-listings"
	OpChat            = "chat"
	OpInterview       = "interview-questions"
	OpResumeSummary   = "resume-summary"
	OpResumeHTML      = "resume-html"
	OpResumePDF       = "resume-pdf"
)

// Résumé builder steps understood by the service.
const (
	StepSummary      = "summary"
	StepGenerateHTML = "generate-html"
	StepGeneratePDF  = "generate-pdf"
)

// Backend is every operation the engine needs from the advisory service.
type Backend interface {
	Recommendations(ctx context.Context, req RecommendationRequest) ([]career.Career, error)
	Certifications(ctx context.Context, req CertificationRequest) (string, error)
	JobListings(ctx context.Context, req JobListingRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
	InterviewQuestions(ctx context.Context, req InterviewRequest) (*InterviewSet, error)
	ResumeSummary(ctx context.Context, req SummaryRequest) (string, error)
	ResumeHTML(ctx context.Context, data ResumeData) (string, error)
	ResumePDF(ctx context.Context, data ResumeData) ([]byte, error)
}

type RecommendationRequest struct {
	Skills  []skills.Rating  `json:"skills"`
	Profile *profile.Profile `json:"profile"`
}

type CertificationRequest struct {
	CareerTitle string          `json:"career_title"`
	Skills      []skills.Rating `json:"skills"`
}

type JobListingRequest struct {
	Role     string `json:"role"`
	Location string `json:"location"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type InterviewRequest struct {
	Role string `json:"role"`
	// Count is the number of questions asked for. Zero lets the service decide.
	Count int `json:"count,omitempty"`
}

// InterviewSet holds parallel question and model-answer sequences.
type InterviewSet struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

var ErrUnevenInterview = errors.New("questions and answers differ in length")

// Validate checks that the set is non-empty and both sequences have equal length.
func (s *InterviewSet) Validate() error {
	if s == nil || len(s.Questions) == 0 {
		return errors.New("no interview questions")
	}
	if len(s.Questions) != len(s.Answers) {
		return fmt.Errorf("%w: %d questions, %d answers", ErrUnevenInterview, len(s.Questions), len(s.Answers))
	}
	return nil
}

type SummaryRequest struct {
	WorkExperienceText string `json:"work_experience_text"`
}

// resumeRequest is the body of every résumé-builder call.
type resumeRequest struct {
	Step               string      `json:"step"`
	WorkExperienceText string      `json:"work_experience_text,omitempty"`
	ResumeData         *ResumeData `json:"resume_data,omitempty"`
}

// ResumeData is the typed résumé draft sent for rendering.
type ResumeData struct {
	Name           string       `json:"name" mapstructure:"name"`
	Phone          string       `json:"phone" mapstructure:"phone"`
	Email          string       `json:"email" mapstructure:"email"`
	LinkedIn       string       `json:"linkedin,omitempty" mapstructure:"linkedin"`
	Portfolio      string       `json:"portfolio,omitempty" mapstructure:"portfolio"`
	Address        string       `json:"address,omitempty" mapstructure:"address"`
	Summary        string       `json:"summary,omitempty" mapstructure:"summary"`
	Experiences    []Experience `json:"experiences" mapstructure:"experiences"`
	Education      []Education  `json:"education" mapstructure:"education"`
	Skills         []string     `json:"skills" mapstructure:"skills"`
	Certifications []string     `json:"certifications" mapstructure:"certifications"`
	Projects       []Project    `json:"projects" mapstructure:"projects"`
	Languages      []string     `json:"languages" mapstructure:"languages"`
	Hobbies        []string     `json:"hobbies" mapstructure:"hobbies"`
}

type Experience struct {
	JobTitle     string   `json:"job_title" mapstructure:"job_title"`
	Company      string   `json:"company" mapstructure:"company"`
	Location     string   `json:"location" mapstructure:"location"`
	StartDate    string   `json:"start_date" mapstructure:"start_date"`
	EndDate      string   `json:"end_date" mapstructure:"end_date"`
	Achievements []string `json:"achievements" mapstructure:"achievements"`
}

type Education struct {
	Degree         string `json:"degree" mapstructure:"degree"`
	Institution    string `json:"institution" mapstructure:"institution"`
	Location       string `json:"location" mapstructure:"location"`
	GraduationDate string `json:"graduation_date" mapstructure:"graduation_date"`
	Honors         string `json:"honors,omitempty" mapstructure:"honors"`
}

type Project struct {
	Title        string `json:"title" mapstructure:"title"`
	Description  string `json:"description" mapstructure:"description"`
	Technologies string `json:"technologies" mapstructure:"technologies"`
	Role         string `json:"role" mapstructure:"role"`
}
