package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/career-compass/internal/advisor"
	"github.com/spigell/career-compass/internal/ai"
	"github.com/spigell/career-compass/internal/backend"
)

func loadConfig(t *testing.T, yaml string) *Config {
	t.Helper()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))

	config, err := decodeConfig(v)
	require.NoError(t, err)
	return config
}

func TestDecodeConfigDefaults(t *testing.T) {
	config := loadConfig(t, "")

	assert.Equal(t, ModeHTTP, config.Backend.Mode)
	assert.Equal(t, backend.DefaultURL, config.Backend.URL)
	assert.Equal(t, backend.DefaultTimeout, config.Backend.Timeout)
	assert.Equal(t, "gemini", config.AI.Provider)
	assert.Equal(t, 3, config.AI.Gemini.MaxRetries)
	assert.True(t, config.PDF.Enabled)
	assert.Equal(t, advisor.DefaultQuestions, config.Interview.Questions)
	require.NotNil(t, config.AI.Ollama)
}

func TestDecodeConfigFromYAML(t *testing.T) {
	config := loadConfig(t, `
backend:
  mode: direct
  url: https://advisor.example.com
  timeout: 90s
ai:
  provider: ollama
  ollama:
    url: http://gpu-box:11434
    model: mistral
    timeout: 2m
interview:
  questions: 5
`)

	assert.Equal(t, ModeDirect, config.Backend.Mode)
	assert.Equal(t, "https://advisor.example.com", config.Backend.URL)
	assert.Equal(t, 90*time.Second, config.Backend.Timeout)
	assert.Equal(t, "mistral", config.AI.Ollama.Model)
	assert.Equal(t, 2*time.Minute, config.AI.Ollama.Timeout)
	assert.Equal(t, 5, config.Interview.Questions)
}

func TestNewBackendHTTPReadsTokenFile(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  secret-token\n"), 0o600))

	config := loadConfig(t, "backend:\n  token-file: "+tokenFile+"\n  user-agent: tests\n")

	b, err := newBackend(context.Background(), config, zaptest.NewLogger(t))
	require.NoError(t, err)

	client, ok := b.(*backend.Client)
	require.True(t, ok)
	assert.Equal(t, "tests", client.UserAgent)
	assert.Equal(t, backend.DefaultURL, client.BaseURL)
}

func TestNewBackendErrors(t *testing.T) {
	log := zaptest.NewLogger(t)

	config := loadConfig(t, "backend:\n  mode: carrier-pigeon\n")
	_, err := newBackend(context.Background(), config, log)
	require.ErrorContains(t, err, "unsupported backend mode")

	config = loadConfig(t, "backend:\n  token-file: /nonexistent/token\n")
	_, err = newBackend(context.Background(), config, log)
	require.ErrorContains(t, err, "CAREER_COMPASS_TOKEN_FILE")
}

func TestNewBackendDirectWithOllama(t *testing.T) {
	config := loadConfig(t, "backend:\n  mode: direct\nai:\n  provider: ollama\npdf:\n  enabled: false\n")

	b, err := newBackend(context.Background(), config, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.IsType(t, &advisor.Advisor{}, b)
}

func TestGeneratorConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := generatorConfig(&AIConfig{Provider: "gemini", Gemini: &GeminiConfig{}, Ollama: &OllamaConfig{}})
	require.ErrorContains(t, err, "gemini api key")

	_, err = generatorConfig(&AIConfig{Provider: "palm", Gemini: &GeminiConfig{}, Ollama: &OllamaConfig{}})
	require.ErrorContains(t, err, "unsupported ai provider")

	cfg, err := generatorConfig(&AIConfig{Gemini: &GeminiConfig{APIKey: " key ", Model: "gemini-2.5-pro"}, Ollama: &OllamaConfig{}})
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderGemini, cfg.Provider)
	assert.Equal(t, "key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
}

func TestRedactedHidesSecrets(t *testing.T) {
	config := &Config{
		Backend: &BackendConfig{Token: "t0k3n"},
		AI:      &AIConfig{Gemini: &GeminiConfig{APIKey: "k3y"}},
	}

	out := redacted(config)
	assert.Equal(t, "***", out.Backend.Token)
	assert.Equal(t, "***", out.AI.Gemini.APIKey)
	assert.Equal(t, "t0k3n", config.Backend.Token)
}
