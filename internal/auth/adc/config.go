package adc

import (
	"os"
	"path/filepath"
	"strings"
)

// configDir returns the gcloud configuration directory, honouring
// CLOUDSDK_CONFIG the way gcloud itself does.
func configDir() string {
	if dir := os.Getenv("CLOUDSDK_CONFIG"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gcloud")
}

// ReadConfig reads section.key from the active gcloud configuration file.
// Returns empty string if the file or key doesn't exist.
func ReadConfig(section, key string) string {
	dir := configDir()
	if dir == "" {
		return ""
	}

	path := filepath.Join(dir, "configurations", "config_"+activeConfig(dir))
	data, err := os.ReadFile(path) // #nosec G304 -- Reading well-known gcloud config file
	if err != nil {
		return ""
	}
	return parseINIValue(string(data), section, key)
}

// activeConfig returns the active configuration name, "default" if unset.
func activeConfig(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "active_config")) // #nosec G304
	if err != nil {
		return "default"
	}
	if name := strings.TrimSpace(string(data)); name != "" {
		return name
	}
	return "default"
}

// parseINIValue extracts key from [section] in INI-style content.
func parseINIValue(content, section, key string) string {
	var current string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.Trim(line, "[]")
			continue
		}
		if current != section {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(name) == key {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
