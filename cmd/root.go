package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/career-compass/internal/advisor"
	"github.com/spigell/career-compass/internal/backend"
)

const (
	app = "career-compass"

	ModeHTTP   = "http"
	ModeDirect = "direct"
)

type Config struct {
	Backend   *BackendConfig   `mapstructure:"backend"`
	AI        *AIConfig        `mapstructure:"ai"`
	PDF       *PDFConfig       `mapstructure:"pdf"`
	Interview *InterviewConfig `mapstructure:"interview"`
}

type BackendConfig struct {
	// Mode is http (remote advisory service) or direct (in-process AI).
	Mode      string        `mapstructure:"mode"`
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	Ollama   *OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OllamaConfig struct {
	URL     string        `mapstructure:"url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PDFConfig controls headless Chrome used for PDF export in direct mode.
type PDFConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	ChromePath string        `mapstructure:"chrome-path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type InterviewConfig struct {
	Questions int `mapstructure:"questions"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-compass is a terminal career guidance assistant for students",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"backend.mode":           "CAREER_COMPASS_BACKEND_MODE",
		"backend.url":            "CAREER_COMPASS_BACKEND_URL",
		"backend.token-file":     "CAREER_COMPASS_TOKEN_FILE",
		"ai.provider":            "CAREER_COMPASS_AI_PROVIDER",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.ollama.url":          "OLLAMA_HOST",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-compass.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.mode", ModeHTTP)
	v.SetDefault("backend.url", backend.DefaultURL)
	v.SetDefault("backend.timeout", backend.DefaultTimeout)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("pdf.enabled", true)
	v.SetDefault("interview.questions", advisor.DefaultQuestions)
}

func initConfig() {
	// Config is needed only for the run command.
	if runCmd.CalledAs() == "" {
		return
	}

	// An absent .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Defaults and environment are enough without the default file.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Backend == nil {
		config.Backend = &BackendConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Ollama == nil {
		config.AI.Ollama = &OllamaConfig{}
	}
	if config.PDF == nil {
		config.PDF = &PDFConfig{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}

	return config, nil
}
