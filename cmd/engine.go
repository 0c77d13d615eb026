package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/advisor"
	"github.com/spigell/career-compass/internal/ai"
	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/logger"
	"github.com/spigell/career-compass/internal/secrets"
)

// newBackend builds the advisory backend for the configured mode.
func newBackend(ctx context.Context, config *Config, log *zap.Logger) (backend.Backend, error) {
	switch mode := strings.ToLower(strings.TrimSpace(config.Backend.Mode)); mode {
	case "", ModeHTTP:
		return newHTTPBackend(config.Backend, log)
	case ModeDirect:
		return newDirectBackend(ctx, config, log)
	default:
		return nil, fmt.Errorf("unsupported backend mode: %s", config.Backend.Mode)
	}
}

func newHTTPBackend(cfg *BackendConfig, log *zap.Logger) (*backend.Client, error) {
	token, err := secrets.Optional(secrets.Source{
		Name:  "advisory service token",
		Value: cfg.Token,
		File:  cfg.TokenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set backend.token-file or CAREER_COMPASS_TOKEN_FILE)", err)
	}

	client := backend.New(log.Named("backend"), cfg.URL, token, cfg.Timeout)
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	log.Info("using advisory service", zap.String("url", client.BaseURL), zap.Bool("token", token != ""))
	return client, nil
}

func newDirectBackend(ctx context.Context, config *Config, log *zap.Logger) (*advisor.Advisor, error) {
	aiCfg, err := generatorConfig(config.AI)
	if err != nil {
		return nil, err
	}

	model := aiCfg.Gemini.Model
	if aiCfg.Provider == ai.ProviderOllama {
		model = aiCfg.Ollama.Model
	}
	genLogger := logger.WithCommonFields(log, aiCfg.Provider, model)

	generator, err := ai.New(ctx, aiCfg, genLogger)
	if err != nil {
		return nil, fmt.Errorf("building ai generator: %w", err)
	}

	var pdf advisor.PDFRenderer
	if config.PDF.Enabled {
		pdf = advisor.NewChromeRenderer(config.PDF.ChromePath, config.PDF.Timeout, log.Named("pdf"))
	}

	log.Info("answering requests in-process", zap.String(logger.FieldProvider, aiCfg.Provider), zap.String(logger.FieldModel, generator.Model()))
	return advisor.New(generator, pdf, config.Interview.Questions, genLogger.Named("advisor")), nil
}

func generatorConfig(cfg *AIConfig) (ai.Config, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ai.ProviderGemini
	}

	out := ai.Config{
		Provider: provider,
		Ollama: ai.OllamaConfig{
			URL:     cfg.Ollama.URL,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.Ollama.Timeout,
		},
		Gemini: ai.GeminiConfig{
			Model:        cfg.Gemini.Model,
			MaxRetries:   cfg.Gemini.MaxRetries,
			MaxLogLength: cfg.Gemini.MaxLogLength,
		},
	}

	switch provider {
	case ai.ProviderGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return ai.Config{}, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		out.Gemini.APIKey = apiKey
	case ai.ProviderOllama:
	default:
		return ai.Config{}, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	return out, nil
}
