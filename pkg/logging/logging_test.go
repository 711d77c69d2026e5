package logging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/vertexscout/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.WarnLevel},
		{"bogus", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.input))
		})
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	path := filepath.Join(t.TempDir(), "sweep.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "debug",
		Format: "json",
		Output: path,
	})
	logger.Debug().Str("publisher", "google").Msg("probing")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"publisher":"google"`)
	assert.Contains(t, string(content), `"message":"probing"`)
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestContextFields(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithRunID(ctx, "01JABCDEF")
	ctx = logging.WithPublisher(ctx, "anthropic")
	ctx = logging.WithModel(ctx, "claude-sonnet-4-5")
	ctx = logging.WithRegion(ctx, "us-east5")

	logging.FromContext(ctx).Info().Err(errors.New("forbidden")).Msg("probe complete")

	assert.Equal(t, "01JABCDEF", logging.RunID(ctx))
	assert.Len(t, tl.Lines(), 1)
	for _, want := range []string{
		`"run_id":"01JABCDEF"`,
		`"publisher":"anthropic"`,
		`"model_id":"claude-sonnet-4-5"`,
		`"region":"us-east5"`,
		`"error":"forbidden"`,
	} {
		assert.True(t, tl.Contains(want), "missing %s in %s", want, tl.Output())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Equal(t, "", logging.RunID(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Warn().Msg("catalog fallback")
	assert.True(t, tl.Contains("catalog fallback"))
}
