package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vertexscout/internal/discovery"
	"github.com/agentstation/vertexscout/internal/gcloud"
	pkgerrors "github.com/agentstation/vertexscout/pkg/errors"
)

const listArgs = "alpha ai model-garden models list --limit=1000 --full-resource-name --format=value(name)"

func TestStatic(t *testing.T) {
	candidates, err := Static()
	require.NoError(t, err)
	assert.Len(t, candidates, 28)
	assert.Contains(t, candidates, discovery.Candidate{Publisher: "google", Model: "gemini-3-pro-preview"})
	assert.Contains(t, candidates, discovery.Candidate{Publisher: "ai21", Model: "jamba-large-1.6"})

	publishers := map[string]bool{}
	for _, c := range candidates {
		publishers[c.Publisher] = true
	}
	for _, p := range Publishers {
		assert.True(t, publishers[p], "static table must cover %s", p)
	}

	candidates[0].Model = "mutated"
	again, err := Static()
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Model)
}

func TestParseStaticErrors(t *testing.T) {
	_, err := parseStatic([]byte("publishers: ["))
	assert.Error(t, err)

	_, err = parseStatic([]byte("publishers: []\n"))
	assert.ErrorContains(t, err, "no models listed")
}

func TestParseListing(t *testing.T) {
	names := []string{
		"publishers/google/models/gemini-2.5-pro",
		"publishers/google/models/imagen-4.0",
		"publishers/anthropic/models/claude-opus-4@20250514",
		"publishers/meta/models/Llama-3.3-70B-Instruct-maas",
		"publishers/deepseek-ai/models/deepseek-r1",
		"publishers/ai21/models/jamba-large-1.6@001",
		"projects/x/models/gemini",
		"garbage",
		"",
	}

	got := ParseListing(names)

	for _, want := range []discovery.Candidate{
		{Publisher: "google", Model: "gemini-2.5-pro"},
		{Publisher: "anthropic", Model: "claude-opus-4@20250514"},
		{Publisher: "anthropic", Model: "claude-opus-4"},
		{Publisher: "meta", Model: "Llama-3.3-70B-Instruct-maas"},
		{Publisher: "ai21", Model: "jamba-large-1.6@001"},
		{Publisher: "ai21", Model: "jamba-large-1.6"},
		{Publisher: "mistral-ai", Model: "mistral-medium-3"},
		{Publisher: "mistral-ai", Model: "codestral-2405"},
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, discovery.Candidate{Publisher: "google", Model: "imagen-4.0"})
	assert.NotContains(t, got, discovery.Candidate{Publisher: "deepseek-ai", Model: "deepseek-r1"})
	assert.Equal(t, discovery.Dedupe(got), got)
}

func TestParseListingUnusable(t *testing.T) {
	assert.Nil(t, ParseListing(nil))
	assert.Nil(t, ParseListing([]string{"publishers/google/models/imagen-4.0"}))
}

func TestSourceCandidates(t *testing.T) {
	static, err := Static()
	require.NoError(t, err)

	tests := []struct {
		name       string
		runner     *gcloud.Fake
		useDynamic bool
		wantOrigin Origin
		wantStatic bool
	}{
		{
			name:       "dynamic listing",
			runner:     &gcloud.Fake{Outputs: map[string]string{listArgs: "publishers/google/models/gemini-9-ultra\n"}},
			useDynamic: true,
			wantOrigin: OriginDynamic,
		},
		{
			name:       "listing fails",
			runner:     &gcloud.Fake{Err: errors.New("exit status 1")},
			useDynamic: true,
			wantOrigin: OriginFallback,
			wantStatic: true,
		},
		{
			name:       "listing empty",
			runner:     &gcloud.Fake{Outputs: map[string]string{listArgs: "\n"}},
			useDynamic: true,
			wantOrigin: OriginFallback,
			wantStatic: true,
		},
		{
			name:       "static requested",
			runner:     &gcloud.Fake{Outputs: map[string]string{listArgs: "publishers/google/models/gemini-9-ultra\n"}},
			useDynamic: false,
			wantOrigin: OriginStatic,
			wantStatic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, origin, err := NewSource(tt.runner, 0).Candidates(context.Background(), tt.useDynamic)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrigin, origin)
			require.NotEmpty(t, got)

			if tt.wantStatic {
				for _, c := range static {
					assert.Contains(t, got, c)
				}
				return
			}
			assert.Contains(t, got, discovery.Candidate{Publisher: "google", Model: "gemini-9-ultra"})
		})
	}

	t.Run("static never calls gcloud", func(t *testing.T) {
		runner := &gcloud.Fake{}
		_, _, err := NewSource(runner, 0).Candidates(context.Background(), false)
		require.NoError(t, err)
		assert.Empty(t, runner.Calls)
	})
}

type slowRunner struct{}

func (slowRunner) Run(ctx context.Context, _ ...string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDynamicTimeout(t *testing.T) {
	_, err := NewSource(slowRunner{}, 10*time.Millisecond).Dynamic(context.Background())
	assert.True(t, pkgerrors.IsCatalogUnavailable(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCandidatesCancelledDoesNotFallBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, origin, err := NewSource(slowRunner{}, time.Minute).Candidates(ctx, true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, pkgerrors.IsCatalogUnavailable(err))
	assert.Empty(t, got)
	assert.Empty(t, origin)
}

func TestFilter(t *testing.T) {
	candidates := []discovery.Candidate{
		{Publisher: "anthropic", Model: "claude-opus-4"},
		{Publisher: "anthropic", Model: "claude-3-haiku"},
		{Publisher: "google", Model: "gemini-2.5-pro"},
		{Publisher: "meta", Model: "llama-3.3-70b-instruct-maas"},
	}

	tests := []struct {
		pattern string
		want    int
	}{
		{"", 4},
		{"anthropic/*", 2},
		{"*/claude-opus-*", 1},
		{"{google,meta}/*", 2},
		{"mistral-ai/*", 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Filter(candidates, tt.pattern)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	_, err := Filter(candidates, "anthropic/[")
	assert.True(t, pkgerrors.IsValidationError(err))
}
