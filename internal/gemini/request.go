package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/errors"
)

// ThinkingLevels lists the accepted --thinking-level values.
var ThinkingLevels = []string{"low", "medium", "high"}

// ParseThinkingLevel converts a user-facing level to the API enum.
func ParseThinkingLevel(level string) (genai.ThinkingLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return genai.ThinkingLevelLow, nil
	case "medium":
		// genai has no constant for the medium level yet
		return genai.ThinkingLevel("MEDIUM"), nil
	case "high":
		return genai.ThinkingLevelHigh, nil
	default:
		return "", errors.NewValidationError("thinking_level", level,
			fmt.Sprintf("must be one of %s", strings.Join(ThinkingLevels, ", ")))
	}
}

// Options controls one deep thinking request.
type Options struct {
	Model          string
	Prompt         string
	MaxTokens      int
	ThinkingLevel  string
	ThinkingBudget int
	HideThoughts   bool
	NoSearch       bool
}

// DefaultOptions returns the defaults used when a flag is not set.
func DefaultOptions() Options {
	return Options{
		Model:         constants.DefaultGeminiModel,
		MaxTokens:     constants.DefaultMaxOutputTokens,
		ThinkingLevel: constants.DefaultThinkingLevel,
	}
}

// Validate checks the options before a request is built.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Prompt) == "" {
		return errors.NewValidationError("prompt", o.Prompt, "no prompt provided; use --prompt or --stdin")
	}
	if o.Model == "" {
		return errors.NewValidationError("model", o.Model, "cannot be empty")
	}
	if o.MaxTokens <= 0 {
		return errors.NewValidationError("max_tokens", o.MaxTokens, "must be positive")
	}
	if o.ThinkingBudget < 0 {
		return errors.NewValidationError("thinking_budget", o.ThinkingBudget, "cannot be negative")
	}
	if o.ThinkingBudget == 0 {
		if _, err := ParseThinkingLevel(o.ThinkingLevel); err != nil {
			return err
		}
	}
	return nil
}

// UsesBudget reports whether the thinking budget overrides the level.
func (o Options) UsesBudget() bool {
	return o.ThinkingBudget > 0
}

// ThinkingSummary describes the thinking configuration for display.
func (o Options) ThinkingSummary() string {
	if o.UsesBudget() {
		return fmt.Sprintf("Budget=%d tokens (Overrides Level)", o.ThinkingBudget)
	}
	return "Level=" + strings.ToLower(o.ThinkingLevel)
}

// Request is the generateContent body.
type Request struct {
	Contents         []*genai.Content        `json:"contents"`
	GenerationConfig *genai.GenerationConfig `json:"generationConfig"`
	Tools            []*genai.Tool           `json:"tools,omitempty"`
}

// BuildRequest builds the request body. The thinking configuration carries
// either a budget or a level, never both.
func BuildRequest(o Options) (*Request, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	thinking := &genai.ThinkingConfig{IncludeThoughts: !o.HideThoughts}
	if o.UsesBudget() {
		budget := int32(o.ThinkingBudget) //nolint:gosec // validated user input
		thinking.ThinkingBudget = &budget
	} else {
		level, err := ParseThinkingLevel(o.ThinkingLevel)
		if err != nil {
			return nil, err
		}
		thinking.ThinkingLevel = level
	}

	req := &Request{
		Contents: []*genai.Content{{Parts: []*genai.Part{genai.NewPartFromText(o.Prompt)}}},
		GenerationConfig: &genai.GenerationConfig{
			MaxOutputTokens: int32(o.MaxTokens), //nolint:gosec // validated user input
			ThinkingConfig:  thinking,
		},
	}
	if !o.NoSearch {
		req.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return req, nil
}
