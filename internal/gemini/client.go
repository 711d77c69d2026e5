// Package gemini sends single-prompt deep thinking requests to the Gemini
// API with optional Google Search grounding, and splits the response into
// thoughts, sources and the final answer.
package gemini

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/vertexscout/internal/transport"
	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// ValidateAPIKey rejects empty and known placeholder keys.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.NewAuthenticationError("gemini", "api_key",
			"no API key found; set GEMINI_API_KEY or use --api-key", errors.ErrAPIKeyRequired)
	}
	if key == constants.PlaceholderAPIKey {
		return errors.NewAuthenticationError("gemini", "api_key",
			"placeholder API key rejected; set a real GEMINI_API_KEY", errors.ErrAPIKeyInvalid)
	}
	return nil
}

// Client calls generateContent with an API key.
type Client struct {
	http    *transport.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewClient creates a Gemini client. Empty baseURL and zero timeout use defaults.
func NewClient(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if err := ValidateAPIKey(apiKey); err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = constants.GeminiBaseURL
	}
	if timeout <= 0 {
		timeout = constants.GenerateTimeout
	}
	return &Client{
		http:    transport.New(&transport.QueryAuth{Param: "key"}),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		timeout: timeout,
	}, nil
}

// Endpoint returns the generateContent URL for model, without the key.
func (c *Client) Endpoint(model string) string {
	return c.baseURL + "/models/" + url.PathEscape(model) + ":generateContent"
}

// Generate sends req to model. The response is returned for any HTTP
// status so callers can show the raw error body.
func (c *Client) Generate(ctx context.Context, model string, req *Request) (*transport.Response, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logging.FromContext(ctx).Debug().
		Str("model_id", model).
		Bool("search", len(req.Tools) > 0).
		Msg("Sending generateContent request")

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, c.Endpoint(model), c.apiKey, req)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, elapsed, errors.NewTimeoutError("generateContent", c.timeout.String(), err.Error())
		}
		return nil, elapsed, errors.WrapResource("send", "request", model, err)
	}
	return resp, elapsed, nil
}
