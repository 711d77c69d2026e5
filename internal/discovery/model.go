// Package discovery implements the model availability sweep: probing
// (publisher, model, location) combinations on Vertex AI, reducing the
// regional outcomes of each model to one report, and ordering the results.
package discovery

import (
	"cmp"
	"slices"

	"github.com/agentstation/vertexscout/internal/vertex"
)

// Candidate is a (publisher, model) pair to probe.
type Candidate struct {
	Publisher string `json:"publisher" yaml:"publisher"`
	Model     string `json:"model_id" yaml:"model_id"`
}

// String returns "publisher/model".
func (c Candidate) String() string {
	return c.Publisher + "/" + c.Model
}

// Compare orders candidates by publisher, then model.
func (c Candidate) Compare(other Candidate) int {
	if n := cmp.Compare(c.Publisher, other.Publisher); n != 0 {
		return n
	}
	return cmp.Compare(c.Model, other.Model)
}

// Dedupe returns the unique candidates in (publisher, model) order.
func Dedupe(candidates []Candidate) []Candidate {
	out := slices.Clone(candidates)
	slices.SortFunc(out, Candidate.Compare)
	return slices.Compact(out)
}

// RequiresEula reports whether models of publisher need a license agreement.
// Only first-party models are exempt.
func RequiresEula(publisher string) bool {
	return publisher != vertex.PublisherGoogle
}

// Outcome is the result of probing one location.
type Outcome struct {
	Status Status
	Region string
}

// Report is the reduced availability of one model.
type Report struct {
	Publisher    string   `json:"publisher" yaml:"publisher"`
	Model        string   `json:"model_id" yaml:"model_id"`
	Status       Status   `json:"status" yaml:"status"`
	Regions      []string `json:"regions" yaml:"regions"`
	RequiresEula bool     `json:"requires_eula" yaml:"requires_eula"`
}

// Candidate returns the report's (publisher, model) pair.
func (r Report) Candidate() Candidate {
	return Candidate{Publisher: r.Publisher, Model: r.Model}
}

// SortReports orders reports by (publisher, model), case-sensitive.
func SortReports(reports []Report) {
	slices.SortFunc(reports, func(a, b Report) int {
		return a.Candidate().Compare(b.Candidate())
	})
}

// Group is a run of consecutive reports from one publisher.
type Group struct {
	Publisher string
	Reports   []Report
}

// GroupByPublisher splits sorted reports into consecutive publisher groups.
func GroupByPublisher(reports []Report) []Group {
	var groups []Group
	for _, r := range reports {
		if n := len(groups); n > 0 && groups[n-1].Publisher == r.Publisher {
			groups[n-1].Reports = append(groups[n-1].Reports, r)
			continue
		}
		groups = append(groups, Group{Publisher: r.Publisher, Reports: []Report{r}})
	}
	return groups
}

// PublisherSummary counts report statuses for one publisher.
type PublisherSummary struct {
	Publisher   string `json:"publisher" yaml:"publisher"`
	Available   int    `json:"available" yaml:"available"`
	NeedsAction int    `json:"needs_action" yaml:"needs_action"`
}

// Summarize counts available and action-needed models per publisher,
// in publisher order.
func Summarize(reports []Report) []PublisherSummary {
	var out []PublisherSummary
	for _, g := range GroupByPublisher(reports) {
		s := PublisherSummary{Publisher: g.Publisher}
		for _, r := range g.Reports {
			switch {
			case r.Status == StatusAvailable:
				s.Available++
			case r.Status.NeedsAction():
				s.NeedsAction++
			}
		}
		out = append(out, s)
	}
	return out
}
