package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vertexscout/internal/vertex"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// scripted answers probes from a table keyed by "publisher/model@location".
// Missing keys are NotFound.
type scripted struct {
	mu       sync.Mutex
	outcomes map[string]Status
	calls    []string
}

func (s *scripted) Probe(_ context.Context, target vertex.Target, _ string) Outcome {
	key := target.Publisher + "/" + target.Model + "@" + target.Location
	s.mu.Lock()
	s.calls = append(s.calls, key)
	status, ok := s.outcomes[key]
	s.mu.Unlock()
	if !ok {
		status = StatusNotFound
	}
	return Outcome{Status: status, Region: target.Location}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Status
	}{
		{"ok", 200, `{}`, StatusAvailable},
		{"eula", 403, "You must accept the EULA", StatusNeedsEula},
		{"agreement mixed case", 403, `{"error":{"message":"License AGREEMENT not accepted"}}`, StatusNeedsEula},
		{"terms", 403, "accept the Terms of Service", StatusNeedsEula},
		{"permission", 403, "insufficient permissions", StatusNeedsPermission},
		{"not found", 404, "", StatusNotFound},
		{"bad request", 400, "invalid argument", StatusInconclusive},
		{"server error", 500, "", StatusInconclusive},
		{"rate limited", 429, "quota", StatusInconclusive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, []byte(tt.body)))
		})
	}
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusAvailable > StatusNeedsEula)
	assert.True(t, StatusNeedsEula > StatusNeedsPermission)
	assert.True(t, StatusNeedsPermission > StatusNotFound)

	assert.True(t, StatusNeedsPermission.Reportable())
	assert.False(t, StatusNotFound.Reportable())
	assert.False(t, StatusInconclusive.Reportable())

	data, err := json.Marshal(StatusNeedsEula)
	require.NoError(t, err)
	assert.Equal(t, `"needs_eula"`, string(data))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"needs_permission"`), &s))
	assert.Equal(t, StatusNeedsPermission, s)
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &s))
}

func TestAggregateRegions(t *testing.T) {
	candidate := Candidate{Publisher: "anthropic", Model: "claude-opus-4"}
	regions := []string{"us-central1", "us-east5", "europe-west1", "asia-east1"}

	tests := []struct {
		name     string
		outcomes map[string]Status
		want     *Report
	}{
		{
			name: "available beats eula",
			outcomes: map[string]Status{
				"anthropic/claude-opus-4@us-east5":     StatusAvailable,
				"anthropic/claude-opus-4@us-central1":  StatusNeedsEula,
				"anthropic/claude-opus-4@europe-west1": StatusAvailable,
			},
			want: &Report{
				Publisher: "anthropic", Model: "claude-opus-4", Status: StatusAvailable,
				Regions: []string{"us-east5", "europe-west1"}, RequiresEula: true,
			},
		},
		{
			name: "eula beats permission",
			outcomes: map[string]Status{
				"anthropic/claude-opus-4@us-central1": StatusNeedsPermission,
				"anthropic/claude-opus-4@asia-east1":  StatusNeedsEula,
			},
			want: &Report{
				Publisher: "anthropic", Model: "claude-opus-4", Status: StatusNeedsEula,
				Regions: []string{"asia-east1"}, RequiresEula: true,
			},
		},
		{
			name: "permission causes collapse",
			outcomes: map[string]Status{
				"anthropic/claude-opus-4@us-central1":  StatusNeedsPermission,
				"anthropic/claude-opus-4@europe-west1": StatusNeedsPermission,
				"anthropic/claude-opus-4@us-east5":     StatusInconclusive,
			},
			want: &Report{
				Publisher: "anthropic", Model: "claude-opus-4", Status: StatusNeedsPermission,
				Regions: []string{"us-central1", "europe-west1"}, RequiresEula: true,
			},
		},
		{
			name: "absent everywhere",
			outcomes: map[string]Status{
				"anthropic/claude-opus-4@us-east5": StatusInconclusive,
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &scripted{outcomes: tt.outcomes}
			got, ok := AggregateRegions(context.Background(), prober, "proj", candidate, "tok", regions)

			assert.Len(t, prober.calls, len(regions))
			if tt.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			if diff := cmp.Diff(*tt.want, got); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregateRegionsTagsLogsWithRegion(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	prober := ProberFunc(func(ctx context.Context, target vertex.Target, _ string) Outcome {
		logging.FromContext(ctx).Info().Msg("probed")
		return Outcome{Status: StatusNotFound, Region: target.Location}
	})
	_, ok := AggregateRegions(ctx, prober, "p", Candidate{"google", "gemini-2.5-pro"}, "t",
		[]string{"us-central1", "us-east5"})
	assert.False(t, ok)

	_, ok = probeGlobal(ctx, prober, "p", Candidate{"google", "gemini-2.5-pro"}, "t")
	assert.False(t, ok)

	assert.Len(t, tl.Lines(), 3)
	for _, region := range []string{"us-central1", "us-east5", "global"} {
		assert.True(t, tl.Contains(`"region":"`+region+`"`), "missing %s in %s", region, tl.Output())
	}
}

func TestSweepGlobal(t *testing.T) {
	prober := &scripted{outcomes: map[string]Status{
		"google/gemini-2.5-pro@global":      StatusAvailable,
		"anthropic/claude-opus-4@global":    StatusNeedsEula,
		"anthropic/claude-haiku-4-5@global": StatusAvailable,
		"meta/llama-x@global":               StatusInconclusive,
	}}
	candidates := []Candidate{
		{"google", "gemini-2.5-pro"},
		{"anthropic", "claude-opus-4"},
		{"meta", "llama-x"},
		{"anthropic", "claude-haiku-4-5"},
		{"google", "gemini-2.5-pro"},
		{"ai21", "jamba-large-1.6"},
	}

	var progress []Progress
	sweeper := NewSweeper(prober, WithProgress(func(p Progress) { progress = append(progress, p) }))
	result, err := sweeper.Sweep(context.Background(), Request{Project: "proj", Candidates: candidates, Token: "tok"})
	require.NoError(t, err)

	want := []Report{
		{Publisher: "anthropic", Model: "claude-haiku-4-5", Status: StatusAvailable, Regions: []string{"global"}, RequiresEula: true},
		{Publisher: "anthropic", Model: "claude-opus-4", Status: StatusNeedsEula, Regions: []string{"global"}, RequiresEula: true},
		{Publisher: "google", Model: "gemini-2.5-pro", Status: StatusAvailable, Regions: []string{"global"}, RequiresEula: false},
	}
	if diff := cmp.Diff(want, result.Reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 5, result.Probed)
	assert.Len(t, prober.calls, 5)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, progress, 5)
	assert.Equal(t, Progress{Done: 5, Total: 5}, progress[4])
}

func TestSweepProperties(t *testing.T) {
	outcomes := map[string]Status{}
	var candidates []Candidate
	publishers := []string{"mistral-ai", "google", "anthropic", "Meta", "ai21"}
	for i, pub := range publishers {
		for j := range 6 {
			model := strings.Repeat("m", j+1)
			candidates = append(candidates, Candidate{pub, model}, Candidate{pub, model})
			for k, region := range []string{"r1", "r2", "r3"} {
				switch (i + j + k) % 5 {
				case 0:
					outcomes[pub+"/"+model+"@"+region] = StatusAvailable
				case 1:
					outcomes[pub+"/"+model+"@"+region] = StatusNeedsEula
				case 2:
					outcomes[pub+"/"+model+"@"+region] = StatusNeedsPermission
				}
			}
		}
	}

	run := func() []Report {
		sweeper := NewSweeper(&scripted{outcomes: outcomes}, WithWorkers(4, 3))
		result, err := sweeper.Sweep(context.Background(), Request{
			Project: "p", Candidates: candidates, Token: "t", Regions: []string{"r1", "r2", "r3"},
		})
		require.NoError(t, err)
		return result.Reports
	}

	first := run()
	require.NotEmpty(t, first)

	seen := map[Candidate]bool{}
	for i, r := range first {
		assert.True(t, r.Status.Reportable(), "status %s must be reportable", r.Status)
		assert.False(t, seen[r.Candidate()], "duplicate %s", r.Candidate())
		seen[r.Candidate()] = true
		if i > 0 {
			assert.Negative(t, first[i-1].Candidate().Compare(r.Candidate()), "reports must be sorted")
		}
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(run())
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b), "sweep must be idempotent")
}

func TestSweepUnitPanicIsAbsent(t *testing.T) {
	prober := ProberFunc(func(_ context.Context, target vertex.Target, _ string) Outcome {
		if target.Model == "boom" {
			panic("malformed response")
		}
		return Outcome{Status: StatusAvailable, Region: target.Location}
	})

	result, err := NewSweeper(prober).Sweep(context.Background(), Request{
		Project:    "p",
		Candidates: []Candidate{{"google", "boom"}, {"google", "ok"}},
		Regions:    []string{"us-central1"},
	})
	require.NoError(t, err)
	require.Len(t, result.Reports, 1)
	assert.Equal(t, "ok", result.Reports[0].Model)
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewSweeper(&scripted{}).Sweep(ctx, Request{
		Project:    "p",
		Candidates: []Candidate{{"google", "a"}, {"google", "b"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestSweepOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/locations/us-central1/publishers/google/models/modelA:generateContent"):
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		case strings.Contains(r.URL.Path, "/models/slow"):
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	prober := NewHTTPProber(vertex.NewClient(vertex.WithBaseURL(server.URL)), 50*time.Millisecond)
	result, err := NewSweeper(prober).Sweep(context.Background(), Request{
		Project:    "proj",
		Candidates: []Candidate{{"google", "modelA"}, {"google", "slow"}},
		Token:      "tok",
		Regions:    []string{"us-central1", "europe-west1"},
	})
	require.NoError(t, err)

	want := []Report{{
		Publisher:    "google",
		Model:        "modelA",
		Status:       StatusAvailable,
		Regions:      []string{"us-central1"},
		RequiresEula: false,
	}}
	if diff := cmp.Diff(want, result.Reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPProberTransportFailure(t *testing.T) {
	prober := NewHTTPProber(vertex.NewClient(vertex.WithBaseURL("http://127.0.0.1:1")), time.Second)
	outcome := prober.Probe(context.Background(), vertex.Target{Project: "p", Publisher: "google", Model: "m"}, "tok")
	assert.Equal(t, Outcome{Status: StatusInconclusive, Region: "global"}, outcome)
}

func TestGroupAndSummarize(t *testing.T) {
	reports := []Report{
		{Publisher: "anthropic", Model: "a", Status: StatusAvailable},
		{Publisher: "anthropic", Model: "b", Status: StatusNeedsEula},
		{Publisher: "google", Model: "c", Status: StatusAvailable},
		{Publisher: "meta", Model: "d", Status: StatusNeedsPermission},
	}

	groups := GroupByPublisher(reports)
	require.Len(t, groups, 3)
	assert.Equal(t, "anthropic", groups[0].Publisher)
	assert.Len(t, groups[0].Reports, 2)

	want := []PublisherSummary{
		{Publisher: "anthropic", Available: 1, NeedsAction: 1},
		{Publisher: "google", Available: 1},
		{Publisher: "meta", NeedsAction: 1},
	}
	assert.Equal(t, want, Summarize(reports))
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]Candidate{{"b", "x"}, {"a", "y"}, {"b", "x"}, {"a", "X"}})
	assert.Equal(t, []Candidate{{"a", "X"}, {"a", "y"}, {"b", "x"}}, got)
}

func TestRegions(t *testing.T) {
	c, err := LookupContinent("EUROPE")
	require.NoError(t, err)
	assert.Equal(t, "Europe", c.Name)
	assert.Equal(t, []string{"europe-west1", "europe-west4", "europe-west9"}, c.Regions)

	_, err = LookupContinent("antarctica")
	assert.ErrorContains(t, err, "us, europe, asia")

	assert.Equal(t, "a, b, c", FormatRegions([]string{"a", "b", "c"}))
	assert.Equal(t, "a, b... (+3 more)", FormatRegions([]string{"a", "b", "c", "d", "e"}))
	assert.Equal(t, "us-central1, us-east1... (+2 more)",
		FormatRegions([]string{"us-central1", "us-east1", "us-east4", "us-east5"}))
	assert.Equal(t, "", FormatRegions(nil))

	// callers cannot mutate the table
	Continents()[0].Regions[0] = "mutated"
	assert.Equal(t, "us-central1", Continents()[0].Regions[0])
}

func TestRequestEndpoint(t *testing.T) {
	assert.Equal(t, "https://aiplatform.googleapis.com", Request{}.Endpoint())
	assert.Equal(t, "us-east5", Request{Regions: []string{"us-east5"}}.Endpoint())
}
