package app

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"fac2x2/domain/core"
	"fac2x2/domain/trial"
)

// SweepService batches independent design scenarios. Scenarios share nothing,
// so they run in parallel under a worker bound; each keeps its own seed and
// the batch output is deterministic given the scenario seeds.
type SweepService struct {
	design  *DesignService
	workers int
}

// NewSweepService creates a sweep service with a default worker bound.
func NewSweepService(design *DesignService, workers int) *SweepService {
	if workers < 1 {
		workers = 4
	}
	return &SweepService{design: design, workers: workers}
}

// SweepRequest is a batch of design scenarios.
type SweepRequest struct {
	Scenarios []DesignRequest `json:"scenarios"`
}

// PowerSummary describes the distribution of one power figure across the
// batch.
type PowerSummary struct {
	Procedure trial.Procedure `json:"procedure,omitempty"` // empty for overall A
	Mean      float64         `json:"mean"`
	Median    float64         `json:"median"`
	Min       float64         `json:"min"`
	Max       float64         `json:"max"`
}

// SweepResult carries the per-scenario results in request order plus the
// batch power summaries.
type SweepResult struct {
	SweepID   core.SweepID          `json:"sweep_id"`
	Results   []*trial.DesignResult `json:"results"`
	OverallA  PowerSummary          `json:"overall_a"`
	Summaries []PowerSummary        `json:"procedures"`
	RuntimeMs int64                 `json:"runtime_ms"`
}

// Run executes every scenario and summarizes the power distributions.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	start := time.Now()
	if len(req.Scenarios) == 0 {
		return nil, core.NewDomainError("sweep", "no scenarios")
	}

	results := make([]*trial.DesignResult, len(req.Scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, scenario := range req.Scenarios {
		i, scenario := i, scenario
		g.Go(func() error {
			res, err := s.design.Run(gctx, scenario)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &SweepResult{
		SweepID: core.NewSweepID(),
		Results: results,
	}

	overall := make([]float64, len(results))
	for i, r := range results {
		overall[i] = r.PowerOverallA
	}
	out.OverallA = summarizePowers("", overall)

	for _, proc := range trial.Procedures() {
		powers := make([]float64, 0, len(results))
		for _, r := range results {
			if p, ok := r.ProcedurePower(proc); ok {
				powers = append(powers, p)
			}
		}
		out.Summaries = append(out.Summaries, summarizePowers(proc, powers))
	}

	out.RuntimeMs = time.Since(start).Milliseconds()
	return out, nil
}

func summarizePowers(proc trial.Procedure, powers []float64) PowerSummary {
	mean, _ := stats.Mean(powers)
	median, _ := stats.Median(powers)
	min, _ := stats.Min(powers)
	max, _ := stats.Max(powers)
	return PowerSummary{Procedure: proc, Mean: mean, Median: median, Min: min, Max: max}
}
