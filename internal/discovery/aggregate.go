package discovery

import (
	"context"

	"github.com/agentstation/vertexscout/internal/vertex"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// AggregateRegions probes candidate in each region in turn and reduces the
// outcomes to one report holding the strongest status and exactly the
// regions that reached it, in probe order. It returns false when no region
// produced a reportable status.
func AggregateRegions(ctx context.Context, prober Prober, project string, candidate Candidate, token string, regions []string) (Report, bool) {
	buckets := make(map[Status][]string, 3)
	for _, region := range regions {
		outcome := prober.Probe(logging.WithRegion(ctx, region), vertex.Target{
			Project:   project,
			Location:  region,
			Publisher: candidate.Publisher,
			Model:     candidate.Model,
		}, token)
		if outcome.Status.Reportable() {
			buckets[outcome.Status] = append(buckets[outcome.Status], region)
		}
	}

	// Two NeedsPermission regions with different causes collapse into one bucket.
	for _, status := range []Status{StatusAvailable, StatusNeedsEula, StatusNeedsPermission} {
		if winners := buckets[status]; len(winners) > 0 {
			return newReport(candidate, status, winners), true
		}
	}
	return Report{}, false
}

// probeGlobal probes candidate once on the global endpoint.
func probeGlobal(ctx context.Context, prober Prober, project string, candidate Candidate, token string) (Report, bool) {
	outcome := prober.Probe(logging.WithRegion(ctx, vertex.Global), vertex.Target{
		Project:   project,
		Location:  vertex.Global,
		Publisher: candidate.Publisher,
		Model:     candidate.Model,
	}, token)
	if !outcome.Status.Reportable() {
		return Report{}, false
	}
	return newReport(candidate, outcome.Status, []string{vertex.Global}), true
}

func newReport(c Candidate, status Status, regions []string) Report {
	return Report{
		Publisher:    c.Publisher,
		Model:        c.Model,
		Status:       status,
		Regions:      regions,
		RequiresEula: RequiresEula(c.Publisher),
	}
}
