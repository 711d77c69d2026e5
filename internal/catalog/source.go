// Package catalog supplies the (publisher, model) candidates for a sweep,
// from the Model Garden listing or from a built-in table.
package catalog

import (
	"context"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentstation/vertexscout/internal/discovery"
	"github.com/agentstation/vertexscout/internal/gcloud"
	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Origin names where a candidate set came from.
type Origin string

const (
	// OriginDynamic is the Model Garden listing.
	OriginDynamic Origin = "model-garden"
	// OriginStatic is the built-in table, selected explicitly.
	OriginStatic Origin = "static"
	// OriginFallback is the built-in table used after the listing failed.
	OriginFallback Origin = "static-fallback"
)

// Source resolves candidates.
type Source struct {
	runner  gcloud.Runner
	timeout time.Duration
}

// NewSource creates a catalog source. A zero timeout uses the default listing timeout.
func NewSource(runner gcloud.Runner, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = constants.CatalogTimeout
	}
	return &Source{runner: runner, timeout: timeout}
}

// Candidates returns the candidate set. With useDynamic the Model Garden
// listing is tried first; any failure or an empty usable result falls
// back to the built-in table. Cancellation of ctx is returned as is.
func (s *Source) Candidates(ctx context.Context, useDynamic bool) ([]discovery.Candidate, Origin, error) {
	if useDynamic {
		candidates, err := s.Dynamic(ctx)
		if err == nil {
			return candidates, OriginDynamic, nil
		}
		if !errors.IsCatalogUnavailable(err) {
			return nil, "", err
		}
		logging.FromContext(ctx).Warn().Err(err).Msg("Model Garden listing unavailable, using static model list")
	}

	candidates, err := Static()
	if err != nil {
		return nil, "", err
	}
	if useDynamic {
		return candidates, OriginFallback, nil
	}
	return candidates, OriginStatic, nil
}

// Dynamic lists Model Garden models through gcloud. Every failure other
// than cancellation of ctx is a CatalogError so callers can fall back.
func (s *Source) Dynamic(ctx context.Context) ([]discovery.Candidate, error) {
	if s.runner == nil {
		return nil, errors.NewCatalogError("no gcloud runner configured", nil)
	}

	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names, err := gcloud.ListModelGarden(listCtx, s.runner)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewCatalogError("listing command failed", err)
	}

	candidates := ParseListing(names)
	if len(candidates) == 0 {
		return nil, errors.NewCatalogError("listing returned no usable models", nil)
	}

	logging.FromContext(ctx).Debug().
		Int("listed", len(names)).
		Int("candidates", len(candidates)).
		Msg("Parsed Model Garden listing")
	return candidates, nil
}

// Filter keeps candidates whose "publisher/model" matches the glob pattern.
// An empty pattern keeps everything.
func Filter(candidates []discovery.Candidate, pattern string) ([]discovery.Candidate, error) {
	if pattern == "" {
		return candidates, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.NewValidationError("filter", pattern, "invalid glob pattern")
	}

	var out []discovery.Candidate
	for _, c := range candidates {
		if ok, _ := doublestar.Match(pattern, c.String()); ok {
			out = append(out, c)
		}
	}
	return out, nil
}
