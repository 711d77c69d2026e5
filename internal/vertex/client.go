// Package vertex builds and sends the minimal Vertex AI requests used to
// probe and test publisher models: one request shape per publisher family,
// addressed to either a regional or the global endpoint.
package vertex

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/agentstation/vertexscout/internal/transport"
	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Client sends bearer-authenticated requests to Vertex AI.
type Client struct {
	http    *transport.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sends every request to baseURL instead of the
// location-derived host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient creates a Vertex AI client.
func NewClient(opts ...Option) *Client {
	c := &Client{http: transport.New(&transport.BearerAuth{})}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send issues one request for target with the body for its publisher family,
// bounded by timeout. The response is returned for any HTTP status.
func (c *Client) Send(ctx context.Context, target Target, token string, prompt Prompt, timeout time.Duration) (*transport.Response, error) {
	family := FamilyFor(target.Publisher)
	url := target.URL(c.baseURL, family.Method())

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logging.FromContext(ctx).Debug().
		Str("family", family.String()).
		Str("url", url).
		Msg("Sending Vertex AI request")

	return c.http.PostJSON(ctx, url, token, family.Body(target.Model, prompt))
}

// TestResult is the outcome of an interactive model test.
type TestResult struct {
	StatusCode int
	// Text is the generated text on success.
	Text string
	// Message is the error.message of a JSON failure body, truncated for display.
	Message string
	// Body is set instead of Message when the failure body is not a JSON
	// error, truncated for display.
	Body string
	// NeedsEula is set when the failure mentions a license agreement.
	NeedsEula bool
}

// OK reports whether the test call succeeded.
func (r *TestResult) OK() bool {
	return r.StatusCode == 200
}

// Test sends the interactive test prompt to target, bounded by timeout.
// A zero timeout uses the default test timeout.
func (c *Client) Test(ctx context.Context, target Target, token string, timeout time.Duration) (*TestResult, error) {
	if timeout <= 0 {
		timeout = constants.TestTimeout
	}
	resp, err := c.Send(ctx, target, token, TestPrompt, timeout)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewTimeoutError("test "+target.Publisher+"/"+target.Model, timeout.String(), "no response from Vertex AI")
		}
		return nil, err
	}

	result := &TestResult{StatusCode: resp.StatusCode}
	if resp.OK() {
		result.Text = ResponseText(resp.Body)
		return result, nil
	}

	message, ok := errorMessage(resp.Body)
	if !ok {
		result.Body = truncate(string(resp.Body), constants.ErrorMessageLimit)
		return result, nil
	}
	result.Message = truncate(message, constants.ErrorMessageLimit)
	lower := strings.ToLower(message)
	result.NeedsEula = strings.Contains(lower, "agreement") || strings.Contains(lower, "eula")
	return result, nil
}

// errorMessage reads error.message from a JSON object body. It returns
// false when the body is not a JSON object with an object "error" field.
func errorMessage(body []byte) (string, bool) {
	var env struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	if env.Error == nil || env.Error.Message == "" {
		return "Unknown error", true
	}
	return env.Error.Message, true
}

// truncate keeps the first limit runes of s.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// rawPredictResponse covers the partner response shapes: Anthropic returns
// a list of content blocks, some partners return plain content text.
type rawPredictResponse struct {
	Content json.RawMessage `json:"content"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ResponseText extracts the generated text from any family's response body.
// Unrecognised bodies yield the raw body.
func ResponseText(body []byte) string {
	var gen genai.GenerateContentResponse
	if err := json.Unmarshal(body, &gen); err == nil && len(gen.Candidates) > 0 {
		if c := gen.Candidates[0]; c.Content != nil && len(c.Content.Parts) > 0 {
			return c.Content.Parts[0].Text
		}
	}

	var raw rawPredictResponse
	if err := json.Unmarshal(body, &raw); err == nil {
		if len(raw.Content) > 0 {
			var blocks []struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(raw.Content, &blocks); err == nil && len(blocks) > 0 {
				return blocks[0].Text
			}
			var text string
			if err := json.Unmarshal(raw.Content, &text); err == nil {
				return text
			}
		}
		if len(raw.Choices) > 0 {
			return raw.Choices[0].Message.Content
		}
	}

	return string(body)
}
