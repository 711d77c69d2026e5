package app

import (
	"time"

	"github.com/agentstation/vertexscout/internal/config"
	"github.com/agentstation/vertexscout/pkg/constants"
)

// Config holds the vertexscout configuration. Values come from, in
// increasing precedence: defaults, the config file, .env files, the
// environment and command-line flags.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	LogFormat string
	LogOutput string

	ConfigFile string

	Project        string
	ProbeTimeout   time.Duration
	TestTimeout    time.Duration
	CatalogTimeout time.Duration
	GcloudPath     string
	// VertexBaseURL replaces the location-derived Vertex AI host.
	VertexBaseURL string
}

// LoadConfig loads configuration, reading file when it is non-empty and
// searching the default locations otherwise.
func LoadConfig(file string) (*Config, error) {
	v, err := config.Load(config.Options{
		Name:      constants.AppName,
		File:      file,
		EnvPrefix: "VERTEXSCOUT",
		Defaults: map[string]any{
			"probe_timeout":   constants.ProbeTimeout,
			"test_timeout":    constants.TestTimeout,
			"catalog_timeout": constants.CatalogTimeout,
			"gcloud_path":     constants.DefaultGcloudPath,
			"log_format":      "auto",
			"log_output":      "stderr",
		},
	})
	if err != nil {
		return nil, err
	}

	return &Config{
		Format:         v.GetString("format"),
		NoColor:        v.GetBool("no_color"),
		LogFormat:      v.GetString("log_format"),
		LogOutput:      v.GetString("log_output"),
		ConfigFile:     v.ConfigFileUsed(),
		Project:        v.GetString("project"),
		ProbeTimeout:   v.GetDuration("probe_timeout"),
		TestTimeout:    v.GetDuration("test_timeout"),
		CatalogTimeout: v.GetDuration("catalog_timeout"),
		GcloudPath:     v.GetString("gcloud_path"),
		VertexBaseURL:  v.GetString("vertex_base_url"),
	}, nil
}

// UpdateFromFlags applies parsed global flags. Flag values take precedence
// over config file and environment values when set.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, project string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if project != "" {
		c.Project = project
	}
}
