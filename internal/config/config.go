package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	DatabasePath  string
	Port          string
	LogLevel      string
	BaseURL       string
	AIProvider    string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
	AITimeout     time.Duration
}

var defaults = map[string]any{
	"DATABASE_PATH":   "./data/meal-planner.db",
	"PORT":            "8080",
	"LOG_LEVEL":       "info",
	"BASE_URL":        "http://localhost:8080",
	"AI_PROVIDER":     ProviderNone,
	"OPENAI_BASE_URL": "https://api.openai.com/v1",
	"OPENAI_MODEL":    "gpt-4o-mini",
	"GEMINI_MODEL":    "gemini-1.5-flash",
	"AI_TIMEOUT":      "60s",
}

// Load reads configuration from the environment, layered over an optional
// YAML file. Environment variables win over the file.
func Load(configFile string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	config := Config{
		DatabasePath:  v.GetString("DATABASE_PATH"),
		Port:          v.GetString("PORT"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		BaseURL:       strings.TrimSuffix(v.GetString("BASE_URL"), "/"),
		AIProvider:    strings.ToLower(v.GetString("AI_PROVIDER")),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimSuffix(v.GetString("OPENAI_BASE_URL"), "/"),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		AITimeout:     v.GetDuration("AI_TIMEOUT"),
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (config Config) validate() error {
	switch config.AIProvider {
	case ProviderNone:
	case ProviderOpenAI:
		if config.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
		}
	case ProviderGemini:
		if config.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER is gemini")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", config.AIProvider)
	}

	if config.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	return nil
}
