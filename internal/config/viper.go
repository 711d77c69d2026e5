// Package config loads per-binary configuration from .env files, the
// environment and an optional YAML file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/errors"
)

// EnvFiles are loaded in order; values already in the environment win.
var EnvFiles = []string{".env", ".env.local"}

// Options describes how one binary finds its configuration.
type Options struct {
	// Name is the config file base name, e.g. "vertexscout" or "deepthink".
	Name string
	// EnvPrefix scopes automatic environment lookups, e.g. "VERTEXSCOUT"
	// maps the project key to VERTEXSCOUT_PROJECT.
	EnvPrefix string
	// File is an explicit config file path; it must exist.
	File string
	// Defaults are registered before anything is read.
	Defaults map[string]any
	// Env binds extra environment variables to keys, e.g. "gemini_api_key": "GEMINI_API_KEY".
	Env map[string]string
}

// Load builds a viper instance. Keys map to environment variables named
// PREFIX_KEY with "-" and "." replaced by "_", upper-cased; variables in
// Env are bound by their exact name. The config file is searched in
// $XDG_CONFIG_HOME/vertexscout/<name>.yaml, then ~/.vertexscout/<name>.yaml,
// then ./<name>.yaml. A missing file is not an error.
func Load(opts Options) (*viper.Viper, error) {
	LoadEnvFiles()

	v := viper.New()
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range opts.Defaults {
		v.SetDefault(key, value)
	}
	for key, env := range opts.Env {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.NewConfigError("env", "failed to bind "+env, err)
		}
	}

	name := opts.Name
	if name == "" {
		name = constants.AppName
	}
	file := opts.File
	if file == "" {
		file = Search(name)
	}
	if file == "" {
		return v, nil
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigError(file, "failed to read config file", err)
	}
	return v, nil
}

// LoadEnvFiles loads .env files from the working directory, ignoring
// files that do not exist.
func LoadEnvFiles() {
	for _, f := range EnvFiles {
		_ = godotenv.Load(f)
	}
}

// Search returns the first existing config file for name, or "".
func Search(name string) string {
	file := name + ".yaml"
	if path, err := xdg.SearchConfigFile(filepath.Join(constants.AppName, file)); err == nil {
		return path
	}

	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "."+constants.AppName, file))
	}
	candidates = append(candidates, file)
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LogLevels lists the accepted --log-level values.
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

// ResolveLogLevel applies the precedence --log-level > -v > -q > LOG_LEVEL
// > warn. Unknown explicit levels fall back to warn.
func ResolveLogLevel(explicit string, verbose, quiet bool) string {
	if explicit != "" {
		return validLevel(explicit)
	}
	switch {
	case verbose && quiet:
		return "error"
	case verbose:
		return "debug"
	case quiet:
		return "error"
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		return validLevel(env)
	}
	return "warn"
}

func validLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range LogLevels {
		if l == level {
			return level
		}
	}
	return "warn"
}
