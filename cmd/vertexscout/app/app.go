// Package app wires configuration, logging, credentials and the Vertex AI
// client into the vertexscout command tree.
package app

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/vertexscout/internal/auth"
	"github.com/agentstation/vertexscout/internal/catalog"
	"github.com/agentstation/vertexscout/internal/discovery"
	"github.com/agentstation/vertexscout/internal/gcloud"
	"github.com/agentstation/vertexscout/internal/vertex"
	"github.com/agentstation/vertexscout/pkg/errors"
)

// Credentials supplies the bearer token and the active project.
type Credentials interface {
	auth.TokenSource
	auth.ProjectSource
}

// App holds the dependencies shared by every vertexscout command.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	stdout io.Writer
	stderr io.Writer

	mu          sync.Mutex
	runner      gcloud.Runner
	credentials Credentials
	vertex      *vertex.Client
}

// New creates an App with configuration loaded from the environment.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
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

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Runner returns the gcloud runner, creating it on first use.
func (a *App) Runner() gcloud.Runner {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runner == nil {
		a.runner = gcloud.NewCLI(a.config.GcloudPath)
	}
	return a.runner
}

// Credentials returns the credential provider, creating it on first use.
func (a *App) Credentials() Credentials {
	runner := a.Runner()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.credentials == nil {
		a.credentials = auth.NewProvider(runner, auth.WithProject(a.config.Project))
	}
	return a.credentials
}

// Vertex returns the Vertex AI client, creating it on first use.
func (a *App) Vertex() *vertex.Client {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.vertex == nil {
		var opts []vertex.Option
		if a.config.VertexBaseURL != "" {
			opts = append(opts, vertex.WithBaseURL(a.config.VertexBaseURL))
		}
		a.vertex = vertex.NewClient(opts...)
	}
	return a.vertex
}

// Catalog returns a catalog source backed by the gcloud runner.
func (a *App) Catalog() *catalog.Source {
	return catalog.NewSource(a.Runner(), a.config.CatalogTimeout)
}

// Prober returns the HTTP prober used by sweeps.
func (a *App) Prober() discovery.Prober {
	return discovery.NewHTTPProber(a.Vertex(), a.config.ProbeTimeout)
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

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRunner replaces the gcloud runner.
func WithRunner(runner gcloud.Runner) Option {
	return func(a *App) error {
		a.runner = runner
		return nil
	}
}

// WithCredentials replaces the credential provider.
func WithCredentials(creds Credentials) Option {
	return func(a *App) error {
		a.credentials = creds
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
