package vertex

import (
	"google.golang.org/genai"

	"github.com/agentstation/vertexscout/pkg/constants"
)

// Family selects the request shape and call path for a publisher.
type Family int

const (
	// FamilyGenerative uses the Gemini generateContent shape.
	FamilyGenerative Family = iota
	// FamilyAnthropic uses the Anthropic Messages shape via rawPredict.
	FamilyAnthropic
	// FamilyMistral uses the Mistral chat shape via rawPredict.
	FamilyMistral
)

// Publisher identifiers with a dedicated request shape.
const (
	PublisherGoogle    = "google"
	PublisherAnthropic = "anthropic"
	PublisherMistral   = "mistral-ai"
)

// FamilyFor maps a publisher to its request family.
func FamilyFor(publisher string) Family {
	switch publisher {
	case PublisherAnthropic:
		return FamilyAnthropic
	case PublisherMistral:
		return FamilyMistral
	default:
		return FamilyGenerative
	}
}

// String implements fmt.Stringer.
func (f Family) String() string {
	switch f {
	case FamilyAnthropic:
		return "anthropic"
	case FamilyMistral:
		return "mistral"
	default:
		return "generative"
	}
}

// Method returns the model method invoked for this family.
func (f Family) Method() string {
	if f == FamilyGenerative {
		return "generateContent"
	}
	return "rawPredict"
}

// Message is a single chat turn in the partner request shapes.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnthropicRequest is the Vertex-hosted Anthropic Messages body.
type AnthropicRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []Message `json:"messages"`
}

// MistralRequest is the Vertex-hosted Mistral chat body.
type MistralRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// GenerateRequest is the generateContent body.
type GenerateRequest struct {
	Contents         []*genai.Content        `json:"contents"`
	GenerationConfig *genai.GenerationConfig `json:"generationConfig,omitempty"`
}

// Prompt describes the minimal single-turn request to build.
type Prompt struct {
	Text      string
	MaxTokens int
	// CapGenerative applies MaxTokens to the generative shape as well.
	CapGenerative bool
}

// ProbePrompt is the one-token prompt used by availability probes.
var ProbePrompt = Prompt{
	Text:          constants.ProbePrompt,
	MaxTokens:     constants.ProbeMaxTokens,
	CapGenerative: true,
}

// TestPrompt is the prompt used by the interactive test command.
var TestPrompt = Prompt{
	Text:      constants.TestPrompt,
	MaxTokens: constants.TestMaxTokens,
}

// Body builds the request body for this family.
func (f Family) Body(model string, p Prompt) any {
	messages := []Message{{Role: genai.RoleUser, Content: p.Text}}

	switch f {
	case FamilyAnthropic:
		return &AnthropicRequest{
			AnthropicVersion: constants.AnthropicVersion,
			MaxTokens:        p.MaxTokens,
			Messages:         messages,
		}
	case FamilyMistral:
		return &MistralRequest{
			Model:     model,
			MaxTokens: p.MaxTokens,
			Messages:  messages,
		}
	default:
		req := &GenerateRequest{
			Contents: []*genai.Content{genai.NewContentFromText(p.Text, genai.RoleUser)},
		}
		if p.CapGenerative {
			req.GenerationConfig = &genai.GenerationConfig{MaxOutputTokens: int32(p.MaxTokens)} //nolint:gosec // small constant
		}
		return req
	}
}
