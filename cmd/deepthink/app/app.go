// Package app implements the deepthink command: a single prompt sent to a
// Gemini thinking model, optionally grounded with Google Search, printed as
// thoughts, sources and the final answer.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/agentstation/vertexscout/internal/cmd/emoji"
	"github.com/agentstation/vertexscout/pkg/errors"
)

// App holds the deepthink dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	stdin           io.Reader
	stdinIsTerminal func() bool
	stdout          io.Writer
	stderr          io.Writer
}

// New creates an App with configuration loaded from the environment.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		stdin:   os.Stdin,
		stdinIsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config
	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Option configures the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithStdin replaces standard input. isTerminal reports whether it should
// be treated as an interactive terminal.
func WithStdin(r io.Reader, isTerminal bool) Option {
	return func(a *App) error {
		a.stdin = r
		a.stdinIsTerminal = func() bool { return isTerminal }
		return nil
	}
}

// WithOutput redirects command output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}

// ContextWithSignals returns a context cancelled on SIGINT or SIGTERM.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		WriteError(os.Stderr, err)
		os.Exit(1)
	}
}

// WriteError prints err, followed by a hint when the user can fix it.
func WriteError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errorHint(err); hint != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", emoji.Hint, hint)
	}
}

func errorHint(err error) string {
	switch {
	case errors.IsAPIKeyError(err):
		return "Get a key at https://aistudio.google.com/apikey and export GEMINI_API_KEY"
	case errors.IsRateLimited(err):
		return "Gemini quota exceeded; wait and retry"
	case errors.IsTimeout(err):
		return "Raise request_timeout in deepthink.yaml"
	case errors.IsValidationError(err):
		return "Run 'deepthink --help' for usage"
	}
	return ""
}
