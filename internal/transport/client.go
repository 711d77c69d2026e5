// Package transport is the HTTP layer shared by the Vertex AI probes and the
// Gemini client: JSON POSTs with an applied credential, returning the raw
// status and body so callers can classify failures themselves.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends authenticated JSON requests.
// Timeouts are carried by the request context, not the HTTP client.
type Client struct {
	http Doer
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http: &http.Client{},
		auth: auth,
	}
}

// PostJSON marshals body, POSTs it to url with the credential applied, and
// returns the full response. Any HTTP status is a successful call; only
// marshalling and transport failures return an error.
func (c *Client) PostJSON(ctx context.Context, url, credential string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	c.auth.Apply(req, credential)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.FromContext(ctx).Warn().Err(cerr).Msg("Failed to close response body")
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
