// Package adc inspects Google Application Default Credentials and the local
// gcloud configuration without making network calls.
package adc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// TypeAuthorizedUser represents user credentials from gcloud auth.
	TypeAuthorizedUser = "authorized_user"
	// TypeServiceAccount represents service account credentials.
	TypeServiceAccount = "service_account"
)

// File is the subset of an ADC JSON file needed to resolve a project.
type File struct {
	Type           string `json:"type"`
	QuotaProjectID string `json:"quota_project_id"`
	ProjectID      string `json:"project_id"`
}

// FindFile locates the ADC file: GOOGLE_APPLICATION_CREDENTIALS first,
// then the well-known location under the gcloud config directory.
// Returns empty string if not found.
func FindFile() string {
	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	dir := configDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, "application_default_credentials.json")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// ParseFile reads and validates an ADC JSON file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- Reading well-known ADC credential file
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	switch file.Type {
	case TypeAuthorizedUser, TypeServiceAccount:
		return &file, nil
	case "":
		return nil, fmt.Errorf("missing 'type' field")
	default:
		return nil, fmt.Errorf("unknown type: %s", file.Type)
	}
}

// ResolveProject finds a project id from local files only.
//
// Priority order:
//  1. ADC quota_project_id
//  2. ADC project_id
//  3. gcloud configuration file (core.project)
//
// Returns empty strings when nothing is configured.
func ResolveProject() (project, source string) {
	if path := FindFile(); path != "" {
		if file, err := ParseFile(path); err == nil {
			if file.QuotaProjectID != "" {
				return file.QuotaProjectID, "ADC (quota_project_id)"
			}
			if file.ProjectID != "" {
				return file.ProjectID, "ADC (project_id)"
			}
		}
	}
	if p := ReadConfig("core", "project"); p != "" {
		return p, "gcloud config file"
	}
	return "", ""
}
