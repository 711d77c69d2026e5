package catalog

import (
	"regexp"
	"slices"
	"strings"

	"github.com/agentstation/vertexscout/internal/discovery"
)

// Publishers is the allow-list of publishers that are probed.
var Publishers = []string{"google", "anthropic", "meta", "mistral-ai", "ai21"}

// llmPatterns match conversational model families, case-insensitively.
var llmPatterns = regexp.MustCompile(`(?i)gemini|claude|llama|mistral|mixtral|codestral|jamba`)

var resourceName = regexp.MustCompile(`^publishers/([^/]+)/models/(.+)`)

// partnerModels are Mistral ids the listing reports only under generic names.
var partnerModels = []string{
	"mistral-medium-3",
	"mistral-small-2503",
	"mistral-ocr",
	"mistral-large-2407",
	"codestral-2",
	"codestral-2405",
}

// ParseListing turns Model Garden resource names into candidates. It keeps
// allow-listed publishers with LLM model ids, adds the @version-stripped
// variant of each, and unions the known partner ids. An empty result means
// the listing had nothing usable.
func ParseListing(names []string) []discovery.Candidate {
	var out []discovery.Candidate
	for _, name := range names {
		m := resourceName.FindStringSubmatch(strings.TrimSpace(name))
		if m == nil {
			continue
		}
		publisher, model := m[1], m[2]
		if !slices.Contains(Publishers, publisher) || !llmPatterns.MatchString(model) {
			continue
		}
		out = append(out, discovery.Candidate{Publisher: publisher, Model: model})
		if base, _, found := strings.Cut(model, "@"); found && base != "" {
			out = append(out, discovery.Candidate{Publisher: publisher, Model: base})
		}
	}
	if len(out) == 0 {
		return nil
	}

	for _, id := range partnerModels {
		out = append(out, discovery.Candidate{Publisher: "mistral-ai", Model: id})
	}
	return discovery.Dedupe(out)
}
