package adc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseINIValue(t *testing.T) {
	content := `[core]
account = dev@example.com
project = my-project

[compute]
region=us-east5
`
	tests := []struct {
		section, key, want string
	}{
		{"core", "project", "my-project"},
		{"core", "account", "dev@example.com"},
		{"compute", "region", "us-east5"},
		{"compute", "project", ""},
		{"missing", "project", ""},
	}

	for _, tt := range tests {
		t.Run(tt.section+"."+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, parseINIValue(content, tt.section, tt.key))
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"user", `{"type":"authorized_user","quota_project_id":"q"}`, ""},
		{"service account", `{"type":"service_account","project_id":"p"}`, ""},
		{"missing type", `{"project_id":"p"}`, "missing 'type' field"},
		{"unknown type", `{"type":"external_account"}`, "unknown type"},
		{"bad json", `{`, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			writeFile(t, path, tt.content)

			_, err := ParseFile(path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolveProject(t *testing.T) {
	t.Run("quota project wins", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("CLOUDSDK_CONFIG", dir)
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		writeFile(t, filepath.Join(dir, "application_default_credentials.json"),
			`{"type":"authorized_user","quota_project_id":"quota-proj","project_id":"other"}`)

		project, source := ResolveProject()
		assert.Equal(t, "quota-proj", project)
		assert.Equal(t, "ADC (quota_project_id)", source)
	})

	t.Run("explicit credentials file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("CLOUDSDK_CONFIG", filepath.Join(dir, "empty"))
		path := filepath.Join(dir, "sa.json")
		writeFile(t, path, `{"type":"service_account","project_id":"sa-proj"}`)
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)

		project, source := ResolveProject()
		assert.Equal(t, "sa-proj", project)
		assert.Equal(t, "ADC (project_id)", source)
	})

	t.Run("active gcloud configuration", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("CLOUDSDK_CONFIG", dir)
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		writeFile(t, filepath.Join(dir, "active_config"), "work\n")
		writeFile(t, filepath.Join(dir, "configurations", "config_work"), "[core]\nproject = work-proj\n")

		project, source := ResolveProject()
		assert.Equal(t, "work-proj", project)
		assert.Equal(t, "gcloud config file", source)
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv("CLOUDSDK_CONFIG", t.TempDir())
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

		project, source := ResolveProject()
		assert.Empty(t, project)
		assert.Empty(t, source)
	})
}
