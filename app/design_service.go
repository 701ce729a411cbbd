package app

import (
	"context"
	"log"
	"time"

	"fac2x2/domain/core"
	"fac2x2/domain/trial"
	"fac2x2/internal/design"
	"fac2x2/internal/survival"
	"fac2x2/ports"
)

// DesignService runs the design path: event probabilities, per-procedure
// critical values, and power, from scalar design parameters alone.
type DesignService struct {
	scenarios ports.ScenarioRepository // optional
}

// NewDesignService creates a design service. A nil repository disables
// persistence.
func NewDesignService(scenarios ports.ScenarioRepository) *DesignService {
	return &DesignService{scenarios: scenarios}
}

// DesignRequest defines one design invocation. The seed pins every stochastic
// integration; identical requests return identical results.
type DesignRequest struct {
	Params trial.DesignParams `json:"params"`
	Seed   int64              `json:"seed"`
	// Solver overrides the default root-find/integration budget when non-nil.
	Solver *design.SolverConfig `json:"solver,omitempty"`
	// Persist stores the result when a repository is configured.
	Persist bool `json:"persist,omitempty"`
}

// procedure-local seed offsets keep the three solves on independent,
// reproducible integration streams
const seedStride = 101

// Run validates the request, computes the four arm event probabilities, then
// solves critical values and evaluates power for each of the three
// procedures. A failed solve aborts the whole run; no partial results.
func (s *DesignService) Run(ctx context.Context, req DesignRequest) (*trial.DesignResult, error) {
	start := time.Now()
	params := req.Params
	if params.Correlations == (trial.CorrelationTriple{}) {
		params.Correlations = trial.DefaultDesignCorrelations()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	events, err := survival.ArmProbabilities(params.RateC, params.HazardRatios, params.MinCensor, params.MaxCensor)
	if err != nil {
		return nil, err
	}

	powerA, err := design.OverallPowerA(params.SampleSize, params.HazardRatios, events, params.Alpha)
	if err != nil {
		return nil, err
	}
	powerB, err := design.OverallPowerB(params.SampleSize, params.HazardRatios, events, params.Alpha)
	if err != nil {
		return nil, err
	}

	procedures := make([]trial.ProcedureDesign, 0, 3)
	for i, proc := range trial.Procedures() {
		cfg := s.solverConfig(req, int64(i))
		critical, err := design.SolveCriticalValues(proc, params.Correlations, params.Alpha, params.Digits, cfg)
		if err != nil {
			return nil, err
		}
		power, err := design.ProcedurePower(design.PowerInputs{
			SampleSize:     params.SampleSize,
			HazardRatios:   params.HazardRatios,
			Events:         events,
			Correlations:   params.Correlations,
			CriticalValues: critical,
		}, cfg.Integration)
		if err != nil {
			return nil, err
		}
		procedures = append(procedures, trial.ProcedureDesign{
			Procedure:      proc,
			CriticalValues: critical,
			Power:          power,
		})
	}

	result := &trial.DesignResult{
		ScenarioID:     core.NewScenarioID(),
		Params:         params,
		Seed:           req.Seed,
		Events:         events,
		ExpectedEvents: events.ExpectedEvents(params.SampleSize),
		PowerOverallA:  powerA,
		PowerOverallB:  powerB,
		Procedures:     procedures,
		RuntimeMs:      time.Since(start).Milliseconds(),
	}

	if req.Persist && s.scenarios != nil {
		if err := s.scenarios.SaveDesign(ctx, result); err != nil {
			log.Printf("[DesignService] scenario save failed: %v", err)
			return nil, err
		}
	}
	return result, nil
}

func (s *DesignService) solverConfig(req DesignRequest, procIndex int64) design.SolverConfig {
	if req.Solver != nil {
		cfg := *req.Solver
		cfg.Integration.Seed = req.Seed + procIndex*seedStride
		return cfg
	}
	return design.DefaultSolverConfig(req.Seed + procIndex*seedStride)
}
