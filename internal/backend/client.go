package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/career"
)

const (
	DefaultURL       = "http://127.0.0.1:5001"
	DefaultUserAgent = "spigell/career-compass"
	DefaultTimeout   = 60 * time.Second

	pathRecommendations = "/api/recommendations"
	pathCertifications  = "/api/certifications"
	pathJobListings     = "/api/job-listings"
	pathChat            = "/api/chat"
	pathInterview       = "/api/interview-questions"
	pathResume          = "/api/resume-builder"
)

// Client is the HTTP implementation of Backend.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
	// MaxLogLength bounds response previews written to debug logs.
	MaxLogLength int
}

var _ Backend = (*Client)(nil)

func New(logger *zap.Logger, baseURL, token string, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		token:   token,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger:       logger,
		UserAgent:    DefaultUserAgent,
		MaxLogLength: 512,
	}
}

func (c *Client) Recommendations(ctx context.Context, req RecommendationRequest) ([]career.Career, error) {
	data, err := c.postJSON(ctx, OpRecommendations, pathRecommendations, req)
	if err != nil {
		return nil, err
	}
	if err := validateResponse(OpRecommendations, data); err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, Malformed(OpRecommendations, "decode body: %v", err)
	}

	careers, err := career.Decode(payload)
	if err != nil {
		return nil, Malformed(OpRecommendations, "%v", err)
	}

	return careers, nil
}

func (c *Client) Certifications(ctx context.Context, req CertificationRequest) (string, error) {
	return c.textField(ctx, OpCertifications, pathCertifications, "certifications", req)
}

func (c *Client) JobListings(ctx context.Context, req JobListingRequest) (string, error) {
	return c.textField(ctx, OpJobListings, pathJobListings, "job_listings", req)
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	return c.textField(ctx, OpChat, pathChat, "response", req)
}

func (c *Client) InterviewQuestions(ctx context.Context, req InterviewRequest) (*InterviewSet, error) {
	data, err := c.postJSON(ctx, OpInterview, pathInterview, req)
	if err != nil {
		return nil, err
	}
	if err := validateResponse(OpInterview, data); err != nil {
		return nil, err
	}

	var set InterviewSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, Malformed(OpInterview, "decode body: %v", err)
	}
	if err := set.Validate(); err != nil {
		return nil, Malformed(OpInterview, "%v", err)
	}

	return &set, nil
}

func (c *Client) ResumeSummary(ctx context.Context, req SummaryRequest) (string, error) {
	body := resumeRequest{Step: StepSummary, WorkExperienceText: req.WorkExperienceText}
	return c.textField(ctx, OpResumeSummary, pathResume, "summary", body)
}

func (c *Client) ResumeHTML(ctx context.Context, data ResumeData) (string, error) {
	body := resumeRequest{Step: StepGenerateHTML, ResumeData: &data}
	return c.textField(ctx, OpResumeHTML, pathResume, "html", body)
}

func (c *Client) ResumePDF(ctx context.Context, data ResumeData) ([]byte, error) {
	body := resumeRequest{Step: StepGeneratePDF, ResumeData: &data}

	pdf, err := c.postJSON(ctx, OpResumePDF, pathResume, body)
	if err != nil {
		return nil, err
	}
	if !IsPDF(pdf) {
		return nil, Malformed(OpResumePDF, "response is not a PDF document (%d bytes)", len(pdf))
	}

	return pdf, nil
}

// textField posts body and returns the string at field of a validated response.
func (c *Client) textField(ctx context.Context, op, path, field string, body any) (string, error) {
	data, err := c.postJSON(ctx, op, path, body)
	if err != nil {
		return "", err
	}
	if err := validateResponse(op, data); err != nil {
		return "", err
	}

	return gjson.GetBytes(data, field).String(), nil
}
