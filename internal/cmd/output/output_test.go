package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vertexscout/internal/discovery"
	pkgerrors "github.com/agentstation/vertexscout/pkg/errors"
)

func sampleResult() *discovery.Result {
	return &discovery.Result{
		RunID:   "01JTESTRUN",
		Project: "demo-project",
		Probed:  4,
		Reports: []discovery.Report{
			{Publisher: "anthropic", Model: "claude-sonnet-4", Status: discovery.StatusNeedsEula, Regions: []string{"global"}, RequiresEula: true},
			{Publisher: "anthropic", Model: "claude-opus-4", Status: discovery.StatusAvailable, Regions: []string{"global"}, RequiresEula: true},
			{Publisher: "google", Model: "gemini-2.5-pro", Status: discovery.StatusAvailable, Regions: []string{"global"}},
		},
	}
}

func TestFormatStructured(t *testing.T) {
	for _, f := range Formats {
		assert.Equal(t, f == FormatJSON || f == FormatYAML, f.Structured(), f)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"wide", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONAndYAMLFormatters(t *testing.T) {
	result := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, result))
	assert.Contains(t, buf.String(), `"status": "needs_eula"`)
	assert.Contains(t, buf.String(), `"model_id": "claude-sonnet-4"`)
	assert.NotContains(t, buf.String(), "Duration")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, result))
	assert.Contains(t, buf.String(), "01JTESTRUN")
	assert.Contains(t, buf.String(), "status: available")
}

func TestTableFormatterStructSlice(t *testing.T) {
	candidates := []discovery.Candidate{
		{Publisher: "google", Model: "gemini-2.5-pro"},
		{Publisher: "mistralai", Model: "codestral-2"},
	}

	d, ok := toData(candidates)
	require.True(t, ok)
	assert.Equal(t, []string{"Publisher", "Model Id"}, d.Headers)
	assert.Equal(t, [][]string{{"google", "gemini-2.5-pro"}, {"mistralai", "codestral-2"}}, d.Rows)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, candidates))
	assert.Contains(t, buf.String(), "codestral-2")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestSweepReportGlobalTable(t *testing.T) {
	result := sampleResult()
	discovery.SortReports(result.Reports)
	report := SweepReport{Result: result}

	want := Data{
		Headers: []string{"Publisher", "Model ID", "Status", "EULA"},
		Rows: [][]string{
			{"anthropic", "claude-opus-4", "✅ Available", "📝"},
			{"anthropic", "claude-sonnet-4", "📝 Needs EULA", "📝"},
			{"", "", "", ""},
			{"google", "gemini-2.5-pro", "✅ Available", "—"},
		},
	}
	if diff := cmp.Diff(want, report.Table()); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestSweepReportRegionalTable(t *testing.T) {
	continent, err := discovery.LookupContinent("europe")
	require.NoError(t, err)

	result := &discovery.Result{
		Project: "demo-project",
		Regions: continent.Regions,
		Reports: []discovery.Report{
			{Publisher: "google", Model: "gemini-2.5-flash", Status: discovery.StatusNeedsPermission,
				Regions: []string{"europe-west1", "europe-west4", "europe-west9", "europe-west2"}},
		},
	}
	report := SweepReport{Result: result, Continent: &continent}

	d := report.Table()
	assert.Equal(t, "Endpoints in Europe", d.Headers[3])
	assert.Equal(t, []string{"google", "gemini-2.5-flash", "🔐 Needs Perm", "europe-west1, europe-west4... (+2 more)"}, d.Rows[0])
	assert.Equal(t, "Discovering Vertex AI Models on Europe Endpoint", report.Title())
}

func TestSweepReportWriteText(t *testing.T) {
	result := sampleResult()
	discovery.SortReports(result.Reports)

	var buf bytes.Buffer
	require.NoError(t, SweepReport{Result: result}.WriteText(&buf, false))
	out := buf.String()

	assert.Contains(t, out, "Found 3 models")
	assert.Contains(t, out, "anthropic: 1 available, 1 need action")
	assert.Contains(t, out, "google: 1 available")
	assert.Contains(t, out, "Total models: 3")
	assert.Contains(t, out, "gcloud alpha ai models describe publishers/PUBLISHER/models/MODEL_ID --project demo-project --region us-central1")
	assert.Contains(t, out, "https://console.cloud.google.com/vertex-ai/model-garden")
}

func TestSweepReportWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SweepReport{Result: &discovery.Result{Project: "p"}}.WriteText(&buf, false))
	assert.Contains(t, buf.String(), "Found 0 models")
	assert.NotContains(t, buf.String(), "Summary by Publisher")
}

func TestSweepReportMarkdown(t *testing.T) {
	result := sampleResult()
	discovery.SortReports(result.Reports)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatMarkdown).Format(&buf, SweepReport{Result: result, Origin: "static"}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Discovering Vertex AI Models on Global Endpoint"))
	assert.Contains(t, out, "## Models")
	assert.Contains(t, out, "claude-opus-4")
	assert.Contains(t, out, "Catalog: static")
	assert.Contains(t, out, "```shell")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "✅ Available", StatusLabel(discovery.StatusAvailable))
	assert.Equal(t, "📝 Needs EULA", StatusLabel(discovery.StatusNeedsEula))
	assert.Equal(t, "🔐 Needs Perm", StatusLabel(discovery.StatusNeedsPermission))
}
