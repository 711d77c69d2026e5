package discovery

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/agentstation/vertexscout/internal/vertex"
	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Prober probes one model on one location.
type Prober interface {
	Probe(ctx context.Context, target vertex.Target, token string) Outcome
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, target vertex.Target, token string) Outcome

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, target vertex.Target, token string) Outcome {
	return f(ctx, target, token)
}

// eulaMarkers are matched case-insensitively in 403 bodies.
var eulaMarkers = [][]byte{[]byte("agreement"), []byte("eula"), []byte("terms")}

// Classify maps an HTTP status and body to a probe status.
func Classify(statusCode int, body []byte) Status {
	switch statusCode {
	case http.StatusOK:
		return StatusAvailable
	case http.StatusForbidden:
		lower := bytes.ToLower(body)
		for _, marker := range eulaMarkers {
			if bytes.Contains(lower, marker) {
				return StatusNeedsEula
			}
		}
		return StatusNeedsPermission
	case http.StatusNotFound:
		return StatusNotFound
	default:
		return StatusInconclusive
	}
}

// HTTPProber probes through a Vertex AI client with a one-token request.
type HTTPProber struct {
	client  *vertex.Client
	timeout time.Duration
}

// NewHTTPProber creates a prober. A zero timeout uses the default probe timeout.
func NewHTTPProber(client *vertex.Client, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = constants.ProbeTimeout
	}
	return &HTTPProber{client: client, timeout: timeout}
}

// Probe sends exactly one request. Transport failures and timeouts are
// Inconclusive; nothing is retried.
func (p *HTTPProber) Probe(ctx context.Context, target vertex.Target, token string) Outcome {
	region := target.Location
	if target.IsGlobal() {
		region = vertex.Global
	}

	resp, err := p.client.Send(ctx, target, token, vertex.ProbePrompt, p.timeout)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Probe failed")
		return Outcome{Status: StatusInconclusive, Region: region}
	}

	status := Classify(resp.StatusCode, resp.Body)
	logging.FromContext(ctx).Debug().
		Int("http_status", resp.StatusCode).
		Stringer("status", status).
		Msg("Probe complete")
	return Outcome{Status: status, Region: region}
}
