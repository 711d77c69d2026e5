// Package constants provides shared constants used throughout vertexscout.
// This includes timeouts, worker pool sizes, endpoints and defaults that
// should stay consistent between the sweep and the deepthink client.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// ProbeTimeout bounds a single availability probe request.
	ProbeTimeout = 15 * time.Second

	// TestTimeout bounds the single interactive test call.
	TestTimeout = 30 * time.Second

	// CatalogTimeout bounds the Model Garden listing command.
	CatalogTimeout = 60 * time.Second

	// TokenTimeout bounds credential resolution, including the gcloud fallback.
	TokenTimeout = 30 * time.Second

	// CredentialDetectTimeout bounds Application Default Credentials detection.
	CredentialDetectTimeout = 2 * time.Second

	// GenerateTimeout bounds a deep thinking request, which can run for minutes.
	GenerateTimeout = 10 * time.Minute
)

// Worker pool sizes for the sweep phases.
const (
	// GlobalWorkers is the pool size for the global-endpoint phase.
	GlobalWorkers = 20

	// RegionalWorkers is the pool size for each regional phase.
	RegionalWorkers = 10
)

// Probe request parameters.
const (
	// ProbePrompt is the minimal prompt sent by an availability probe.
	ProbePrompt = "hi"

	// ProbeMaxTokens caps the probe generation to a single token.
	ProbeMaxTokens = 1

	// TestPrompt is sent by the interactive test command.
	TestPrompt = "Say hello in one word!"

	// TestMaxTokens caps the interactive test generation.
	TestMaxTokens = 100

	// AnthropicVersion is the Vertex-specific anthropic_version field value.
	AnthropicVersion = "vertex-2023-10-16"

	// ErrorMessageLimit truncates remote error messages on display.
	ErrorMessageLimit = 400

	// RegionDisplayLimit is the longest region list shown in full.
	RegionDisplayLimit = 3

	// RegionPreviewCount is the number of regions kept when a list is collapsed.
	RegionPreviewCount = 2
)

// Endpoint constants.
const (
	// VertexGlobalHost serves the global location.
	VertexGlobalHost = "aiplatform.googleapis.com"

	// VertexAPIVersion is the path prefix of the Vertex AI REST API.
	VertexAPIVersion = "v1"

	// GeminiBaseURL is the Generative Language API root used by deepthink.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// ModelGardenURL points users to the console page for granting access.
	ModelGardenURL = "https://console.cloud.google.com/vertex-ai/model-garden"
)

// Default values
const (
	// DefaultGeminiModel is the default deepthink model.
	DefaultGeminiModel = "gemini-3-pro-preview"

	// DefaultMaxOutputTokens is the default deepthink output cap.
	DefaultMaxOutputTokens = 65536

	// DefaultThinkingLevel is the default deepthink reasoning depth.
	DefaultThinkingLevel = "high"

	// PlaceholderAPIKey is a known placeholder that is rejected as a key.
	PlaceholderAPIKey = "1234"

	// DefaultGcloudPath is the gcloud executable looked up on PATH.
	DefaultGcloudPath = "gcloud"
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Path constants
const (
	// AppName names the configuration directory under the XDG config home.
	AppName = "vertexscout"
)
