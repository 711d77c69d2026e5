package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/vertexscout/internal/vertex"
	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Progress reports completed units against the total.
type Progress struct {
	Done  int
	Total int
}

// ProgressFunc receives progress updates from a single goroutine.
type ProgressFunc func(Progress)

// Request describes one sweep.
type Request struct {
	Project    string
	Candidates []Candidate
	Token      string
	// Regions lists the regions to aggregate over. Empty means the global endpoint.
	Regions []string
}

// Global reports whether the request targets the global endpoint.
func (r Request) Global() bool {
	return len(r.Regions) == 0
}

// Result is the outcome of a sweep.
type Result struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Project  string        `json:"project" yaml:"project"`
	Regions  []string      `json:"regions,omitempty" yaml:"regions,omitempty"`
	Probed   int           `json:"probed" yaml:"probed"`
	Reports  []Report      `json:"models" yaml:"models"`
	Duration time.Duration `json:"-" yaml:"-"`
}

// Sweeper fans probes out over a bounded worker pool.
type Sweeper struct {
	prober          Prober
	globalWorkers   int
	regionalWorkers int
	progress        ProgressFunc
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithWorkers overrides the global and regional pool sizes.
func WithWorkers(global, regional int) SweeperOption {
	return func(s *Sweeper) {
		if global > 0 {
			s.globalWorkers = global
		}
		if regional > 0 {
			s.regionalWorkers = regional
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) SweeperOption {
	return func(s *Sweeper) {
		s.progress = fn
	}
}

// NewSweeper creates a sweeper that probes through prober.
func NewSweeper(prober Prober, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		prober:          prober,
		globalWorkers:   constants.GlobalWorkers,
		regionalWorkers: constants.RegionalWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// unitResult is what a worker hands to the collector.
type unitResult struct {
	report Report
	ok     bool
}

// Sweep probes every unique candidate and returns the reports sorted by
// (publisher, model). A failing unit only drops its own candidate. The
// sweep returns an error, and no reports, only when ctx is cancelled.
func (s *Sweeper) Sweep(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := ulid.Make().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	candidates := Dedupe(req.Candidates)
	workers := s.globalWorkers
	if !req.Global() {
		workers = s.regionalWorkers
	}

	logger.Info().
		Str("project", req.Project).
		Int("candidates", len(candidates)).
		Int("regions", len(req.Regions)).
		Int("workers", workers).
		Msg("Starting sweep")

	results := make(chan unitResult, workers)
	collected := make(chan []Report, 1)

	// Single collector: the only writer of the report slice and the only
	// caller of the progress callback.
	go func() {
		var reports []Report
		done := 0
		for r := range results {
			if r.ok {
				reports = append(reports, r.report)
			}
			done++
			if s.progress != nil {
				s.progress(Progress{Done: done, Total: len(candidates)})
			}
		}
		collected <- reports
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, candidate := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, ok := s.runUnit(gctx, req, candidate)
			results <- unitResult{report: report, ok: ok}
			return nil
		})
	}

	err := g.Wait()
	close(results)
	reports := <-collected

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Sweep cancelled")
		return nil, err
	}

	SortReports(reports)

	result := &Result{
		RunID:    runID,
		Project:  req.Project,
		Regions:  req.Regions,
		Probed:   len(candidates),
		Reports:  reports,
		Duration: time.Since(start),
	}

	logger.Info().
		Int("found", len(reports)).
		Dur("duration", result.Duration).
		Msg("Sweep complete")

	return result, nil
}

// runUnit probes one candidate. A panic inside the unit counts as absent.
func (s *Sweeper) runUnit(ctx context.Context, req Request, candidate Candidate) (report Report, ok bool) {
	ctx = logging.WithPublisher(ctx, candidate.Publisher)
	ctx = logging.WithModel(ctx, candidate.Model)

	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error().
				Str("panic", fmt.Sprint(r)).
				Msg("Probe unit panicked")
			report, ok = Report{}, false
		}
	}()

	if req.Global() {
		return probeGlobal(ctx, s.prober, req.Project, candidate, req.Token)
	}
	return AggregateRegions(ctx, s.prober, req.Project, candidate, req.Token, req.Regions)
}

// Endpoint describes where a request is sent, for display.
func (r Request) Endpoint() string {
	if r.Global() {
		return vertex.GlobalURL()
	}
	return FormatRegions(r.Regions)
}
