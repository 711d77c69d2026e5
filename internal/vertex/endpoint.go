package vertex

import (
	"fmt"
	"net/url"

	"github.com/agentstation/vertexscout/pkg/constants"
)

// Global is the location literal for the global endpoint.
const Global = "global"

// Target identifies one model on one location.
type Target struct {
	Project   string
	Location  string // region name or Global
	Publisher string
	Model     string
}

// IsGlobal reports whether the target uses the global endpoint.
func (t Target) IsGlobal() bool {
	return t.Location == Global || t.Location == ""
}

// Host returns the API host serving the target's location.
func (t Target) Host() string {
	if t.IsGlobal() {
		return constants.VertexGlobalHost
	}
	return t.Location + "-" + constants.VertexGlobalHost
}

// location returns the location path segment.
func (t Target) location() string {
	if t.IsGlobal() {
		return Global
	}
	return t.Location
}

// Path returns the model method path for the target.
func (t Target) Path(method string) string {
	return fmt.Sprintf("/%s/projects/%s/locations/%s/publishers/%s/models/%s:%s",
		constants.VertexAPIVersion,
		url.PathEscape(t.Project),
		url.PathEscape(t.location()),
		url.PathEscape(t.Publisher),
		url.PathEscape(t.Model),
		method)
}

// URL returns the full method URL. A non-empty baseURL replaces the
// location-derived host.
func (t Target) URL(baseURL, method string) string {
	if baseURL == "" {
		baseURL = "https://" + t.Host()
	}
	return baseURL + t.Path(method)
}

// GlobalURL is the global endpoint root shown in sweep headers.
func GlobalURL() string {
	return "https://" + constants.VertexGlobalHost
}
