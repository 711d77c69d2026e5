package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/agentstation/vertexscout/internal/cmd/alerts"
	"github.com/agentstation/vertexscout/internal/cmd/emoji"
	"github.com/agentstation/vertexscout/internal/discovery"
	"github.com/agentstation/vertexscout/internal/vertex"
	"github.com/agentstation/vertexscout/pkg/constants"
)

const ruleWidth = 100

// SweepReport is a sweep result prepared for display.
type SweepReport struct {
	Result *discovery.Result
	// Continent is nil for global sweeps.
	Continent *discovery.Continent
	// Origin names the catalog the candidates came from.
	Origin string
}

// StatusLabel renders a report status with its symbol.
func StatusLabel(s discovery.Status) string {
	switch s {
	case discovery.StatusAvailable:
		return emoji.Available + " Available"
	case discovery.StatusNeedsEula:
		return emoji.NeedsEula + " Needs EULA"
	case discovery.StatusNeedsPermission:
		return emoji.NeedsPermission + " Needs Perm"
	default:
		return emoji.Unknown + " " + s.String()
	}
}

// Title is the report heading.
func (r SweepReport) Title() string {
	if r.Continent != nil {
		return fmt.Sprintf("Discovering Vertex AI Models on %s Endpoint", r.Continent.Name)
	}
	return "Discovering Vertex AI Models on Global Endpoint"
}

func (r SweepReport) regionHeader() string {
	return "Endpoints in " + r.Continent.Name
}

// Table converts the reports to rows with a blank row between publishers.
func (r SweepReport) Table() Data {
	var d Data
	if r.Continent != nil {
		d.Headers = []string{"Publisher", "Model ID", "Status", r.regionHeader()}
	} else {
		d.Headers = []string{"Publisher", "Model ID", "Status", "EULA"}
	}

	for i, group := range discovery.GroupByPublisher(r.Result.Reports) {
		if i > 0 {
			d.Rows = append(d.Rows, make([]string, len(d.Headers)))
		}
		for _, report := range group.Reports {
			last := "—"
			if r.Continent != nil {
				last = discovery.FormatRegions(report.Regions)
			} else if report.RequiresEula {
				last = emoji.NeedsEula
			}
			d.Rows = append(d.Rows, []string{report.Publisher, report.Model, StatusLabel(report.Status), last})
		}
	}
	return d
}

// SummaryLines returns one "publisher: N available, M need action" line per publisher.
func (r SweepReport) SummaryLines() []string {
	var lines []string
	for _, s := range discovery.Summarize(r.Result.Reports) {
		var parts []string
		if s.Available > 0 {
			parts = append(parts, fmt.Sprintf("%d available", s.Available))
		}
		if s.NeedsAction > 0 {
			parts = append(parts, fmt.Sprintf("%d need action", s.NeedsAction))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", s.Publisher, strings.Join(parts, ", ")))
	}
	return lines
}

// Legend explains the status symbols.
func Legend() []string {
	return []string{
		emoji.Available + " Available      = Ready to use",
		emoji.NeedsEula + " Needs EULA     = Must accept End User License Agreement",
		emoji.NeedsPermission + " Needs Perm     = Missing permissions or API not enabled",
	}
}

// EulaCommand is the gcloud invocation that shows, and lets the user accept,
// a publisher model's terms.
func EulaCommand(publisher, model, project string) string {
	return fmt.Sprintf("gcloud alpha ai models describe publishers/%s/models/%s --project %s --region us-central1",
		publisher, model, project)
}

// Notes are the hints printed after a report.
func (r SweepReport) Notes() []*alerts.Alert {
	return []*alerts.Alert{
		alerts.NewHint("To accept EULA for a model, run:").
			WithDetails(EulaCommand("PUBLISHER", "MODEL_ID", r.Result.Project)),
		alerts.NewInfo("Partner models (Mistral, Meta, AI21) may not appear until you accept their terms in Model Garden:").
			WithDetails(constants.ModelGardenURL),
	}
}

// WriteHeader prints the banner shown before the sweep starts.
func (r SweepReport) WriteHeader(w io.Writer, project string, regions []string) {
	symbol := emoji.Globe
	if r.Continent != nil {
		symbol = "📍"
	}
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s %s\n", symbol, r.Title())
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Project: %s\n", project)
	if len(regions) > 0 {
		fmt.Fprintf(w, "Scanning regions: %s\n", strings.Join(regions, ", "))
	} else {
		fmt.Fprintf(w, "Endpoint: %s\n", vertex.GlobalURL())
	}
	fmt.Fprintln(w)
}

// WriteText prints the table, summary, legend and notes.
func (r SweepReport) WriteText(w io.Writer, useColor bool) error {
	fmt.Fprintf(w, "Found %d models\n\n", len(r.Result.Reports))
	if len(r.Result.Reports) > 0 {
		if err := renderTable(w, r.Table()); err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Summary by Publisher:")
		for _, line := range r.SummaryLines() {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total models: %d\n\n", len(r.Result.Reports))
	fmt.Fprintln(w, "Legend:")
	for _, line := range Legend() {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
	return alerts.NewWriter(w, useColor).WriteAll(r.Notes()...)
}

// WriteMarkdown implements MarkdownDocument.
func (r SweepReport) WriteMarkdown(md *markdown.Markdown) {
	md.H1(r.Title())
	details := []string{"Project: " + r.Result.Project}
	if r.Continent != nil {
		details = append(details, "Regions: "+strings.Join(r.Result.Regions, ", "))
	} else {
		details = append(details, "Endpoint: "+vertex.GlobalURL())
	}
	if r.Origin != "" {
		details = append(details, "Catalog: "+r.Origin)
	}
	details = append(details,
		fmt.Sprintf("Probed: %d", r.Result.Probed),
		fmt.Sprintf("Total models: %d", len(r.Result.Reports)),
		"Run: "+r.Result.RunID,
	)
	md.BulletList(details...)

	if len(r.Result.Reports) > 0 {
		d := r.Table()
		rows := make([][]string, 0, len(d.Rows))
		for _, row := range d.Rows {
			if row[0] != "" {
				rows = append(rows, row)
			}
		}
		md.H2("Models")
		md.Table(markdown.TableSet{Header: d.Headers, Rows: rows})
		md.H2("Summary by Publisher")
		md.BulletList(r.SummaryLines()...)
	}

	md.H2("Legend")
	md.BulletList(Legend()...)
	md.H2("Next steps")
	md.PlainText("To accept EULA for a model, run:")
	md.CodeBlocks(markdown.SyntaxHighlightShell, EulaCommand("PUBLISHER", "MODEL_ID", r.Result.Project))
	md.PlainText("Partner models may not appear until you accept their terms in Model Garden: " + constants.ModelGardenURL)
}
