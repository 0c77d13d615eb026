// Package ai holds the text-generation abstraction used when the engine
// answers advisory requests in-process.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/ai/gemini"
	"github.com/spigell/career-compass/internal/ai/ollama"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Generator produces text for a system instruction and a single user message.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

type GeminiConfig struct {
	APIKey       string
	Model        string
	MaxRetries   int
	MaxLogLength int
}

type OllamaConfig struct {
	URL     string
	Model   string
	Timeout time.Duration
}

type Config struct {
	Provider string
	Gemini   GeminiConfig
	Ollama   OllamaConfig
}

// New builds the Generator for cfg.Provider.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		g, err := gemini.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderOllama:
		g, err := ollama.NewGenerator(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Ollama.Timeout, nil, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
