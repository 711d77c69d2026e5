package app

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/vertexscout/internal/config"
	"github.com/agentstation/vertexscout/internal/gemini"
	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Config holds the deepthink configuration.
type Config struct {
	Verbose  bool
	Quiet    bool
	NoColor  bool
	LogLevel string

	ConfigFile string

	APIKey         string
	Model          string
	MaxTokens      int
	ThinkingLevel  string
	RequestTimeout time.Duration
	APIBaseURL     string
}

// LoadConfig loads configuration from deepthink.yaml, .env files and the
// environment. GEMINI_API_KEY supplies the API key.
func LoadConfig(file string) (*Config, error) {
	defaults := gemini.DefaultOptions()
	v, err := config.Load(config.Options{
		Name:      "deepthink",
		File:      file,
		EnvPrefix: "DEEPTHINK",
		Defaults: map[string]any{
			"model":           defaults.Model,
			"max_tokens":      defaults.MaxTokens,
			"thinking_level":  defaults.ThinkingLevel,
			"request_timeout": constants.GenerateTimeout,
			"api_base_url":    constants.GeminiBaseURL,
		},
		Env: map[string]string{
			"gemini_api_key": "GEMINI_API_KEY",
		},
	})
	if err != nil {
		return nil, err
	}

	return &Config{
		NoColor:        v.GetBool("no_color"),
		ConfigFile:     v.ConfigFileUsed(),
		APIKey:         v.GetString("gemini_api_key"),
		Model:          v.GetString("model"),
		MaxTokens:      v.GetInt("max_tokens"),
		ThinkingLevel:  v.GetString("thinking_level"),
		RequestTimeout: v.GetDuration("request_timeout"),
		APIBaseURL:     v.GetString("api_base_url"),
	}, nil
}

// NewLogger creates the logger for cfg using the shared level precedence.
func NewLogger(cfg *Config) zerolog.Logger {
	level := config.ResolveLogLevel(cfg.LogLevel, cfg.Verbose, cfg.Quiet)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    "auto",
		Output:    "stderr",
		NoColor:   cfg.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}
