package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/logger"
)

const (
	DefaultURL   = "http://127.0.0.1:11434"
	defaultModel = "llama3.1"
)

// Generator sends a system prompt and one message to a local Ollama server.
type Generator struct {
	api       *api.Client
	model     string
	maxLogLen int
	logger    *zap.Logger
}

func NewGenerator(baseURL, model string, timeout time.Duration, httpClient *http.Client, log *zap.Logger) (*Generator, error) {
	if baseURL = strings.TrimSpace(baseURL); baseURL == "" {
		baseURL = DefaultURL
	}
	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{
		api:       api.NewClient(u, httpClient),
		model:     model,
		maxLogLen: 200,
		logger:    log.With(zap.String(logger.FieldProvider, "ollama"), zap.String(logger.FieldModel, model)),
	}, nil
}

func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		System: strings.TrimSpace(system),
		Prompt: message,
		Stream: &stream,
	}

	g.logger.Debug("ollama request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", logger.TruncateForLog(message, g.maxLogLen)),
	)

	var builder strings.Builder
	err := g.api.Generate(ctx, req, func(r api.GenerateResponse) error {
		builder.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("ollama returned empty response")
	}

	g.logger.Debug("ollama response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", logger.TruncateForLog(output, g.maxLogLen)),
	)

	return output, nil
}

func (g *Generator) Model() string { return g.model }
