package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/vertexscout/internal/config"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// NewLogger creates the logger for config. Level precedence:
//  1. --log-level
//  2. -v/--verbose (debug)
//  3. -q/--quiet (error)
//  4. LOG_LEVEL
//  5. warn
func NewLogger(cfg *Config) zerolog.Logger {
	level := config.ResolveLogLevel(cfg.LogLevel, cfg.Verbose, cfg.Quiet)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Output:    cfg.LogOutput,
		NoColor:   cfg.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}
