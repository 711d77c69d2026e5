package gcloud_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agentstation/vertexscout/internal/gcloud"
	pkgerrors "github.com/agentstation/vertexscout/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listArgs = "alpha ai model-garden models list --limit=1000 --full-resource-name --format=value(name)"

func TestPrintAccessToken(t *testing.T) {
	t.Run("trims output", func(t *testing.T) {
		fake := &gcloud.Fake{Outputs: map[string]string{"auth print-access-token": "ya29.token\n"}}
		token, err := gcloud.PrintAccessToken(context.Background(), fake)
		require.NoError(t, err)
		assert.Equal(t, "ya29.token", token)
	})

	t.Run("empty output is a credential error", func(t *testing.T) {
		fake := &gcloud.Fake{Outputs: map[string]string{"auth print-access-token": "\n"}}
		_, err := gcloud.PrintAccessToken(context.Background(), fake)
		assert.True(t, pkgerrors.IsCredentialError(err))
	})

	t.Run("command failure propagates", func(t *testing.T) {
		fake := &gcloud.Fake{Err: errors.New("exit status 1")}
		_, err := gcloud.PrintAccessToken(context.Background(), fake)
		assert.EqualError(t, err, "exit status 1")
	})
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"set", "my-project\n", "my-project"},
		{"unset", "(unset)\n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &gcloud.Fake{Outputs: map[string]string{"config get-value project": tt.output}}
			assert.Equal(t, tt.want, gcloud.ConfigValue(context.Background(), fake, "project"))
		})
	}

	t.Run("failure reads as unset", func(t *testing.T) {
		fake := &gcloud.Fake{Err: errors.New("gcloud not installed")}
		assert.Empty(t, gcloud.ConfigValue(context.Background(), fake, "project"))
	})
}

func TestListModelGarden(t *testing.T) {
	fake := &gcloud.Fake{Outputs: map[string]string{
		listArgs: "publishers/google/models/gemini-2.5-pro\n\n  publishers/anthropic/models/claude-opus-4@20250514  \n",
	}}

	names, err := gcloud.ListModelGarden(context.Background(), fake)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"publishers/google/models/gemini-2.5-pro",
		"publishers/anthropic/models/claude-opus-4@20250514",
	}, names)
	assert.Equal(t, []string{listArgs}, fake.Calls)
}

func TestCLIRunMissingBinary(t *testing.T) {
	cli := gcloud.NewCLI("/nonexistent/gcloud-binary")
	_, err := cli.Run(context.Background(), "version")

	var procErr *pkgerrors.ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "version", procErr.Operation)
	assert.Equal(t, -1, procErr.ExitCode)
}

func TestCLIRunFailureCarriesStderr(t *testing.T) {
	cli := gcloud.NewCLI("sh")
	_, err := cli.Run(context.Background(), "-c", "echo 'ERROR: not logged in' >&2; exit 3")

	var procErr *pkgerrors.ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 3, procErr.ExitCode)
	assert.Equal(t, "ERROR: not logged in", procErr.Output)
	assert.Equal(t, "sh -c echo 'ERROR: not logged in' >&2; exit 3", procErr.Command)
	assert.Contains(t, err.Error(), "Output: ERROR: not logged in")
}
