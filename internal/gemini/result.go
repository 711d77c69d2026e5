package gemini

import (
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/agentstation/vertexscout/pkg/errors"
)

// Source is one grounding web source.
type Source struct {
	Title string
	URI   string
}

// Result is the first candidate of a response, split for display.
type Result struct {
	// Empty is set when the response carried no candidates.
	Empty    bool
	Thoughts []string
	Sources  []Source
	Answer   []string
	Usage    *genai.GenerateContentResponseUsageMetadata
}

// ParseResult decodes a successful generateContent body.
func ParseResult(body []byte) (*Result, error) {
	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.WrapParse("json", "generateContent response", err)
	}

	result := &Result{Usage: resp.UsageMetadata}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		result.Empty = true
		return result, nil
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			switch {
			case part.Thought:
				result.Thoughts = append(result.Thoughts, text)
			case part.Text != "":
				result.Answer = append(result.Answer, text)
			}
		}
	}

	if gm := candidate.GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			src := Source{Title: "Source", URI: "#"}
			if chunk != nil && chunk.Web != nil {
				if chunk.Web.Title != "" {
					src.Title = chunk.Web.Title
				}
				if chunk.Web.URI != "" {
					src.URI = chunk.Web.URI
				}
			}
			result.Sources = append(result.Sources, src)
		}
	}

	return result, nil
}

// PrettyJSON indents a JSON body, returning it unchanged if it is not JSON.
func PrettyJSON(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(out)
}
