package app

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"fac2x2/domain/core"
	"fac2x2/domain/trial"
	"fac2x2/internal/design"
	"fac2x2/ports"
)

// AnalysisService runs the analysis path: subject data goes to the external
// stratified Cox fit, the fitted covariance yields Wald-statistic
// correlations, and the solver plus decision rules turn observed p-values
// into per-procedure conclusions.
type AnalysisService struct {
	regression ports.RegressionPort
}

// NewAnalysisService creates an analysis service around the external fit.
func NewAnalysisService(regression ports.RegressionPort) *AnalysisService {
	return &AnalysisService{regression: regression}
}

// AnalysisRequest defines one analysis invocation.
type AnalysisRequest struct {
	Data   ports.TrialData `json:"data"`
	Alpha  float64         `json:"alpha"`
	Digits int             `json:"digits"`
	Seed   int64           `json:"seed"`
	// Solver overrides the default root-find/integration budget when non-nil.
	Solver *design.SolverConfig `json:"solver,omitempty"`
}

// Run fits the model, summarizes the three effects, and evaluates all three
// procedures. A failed critical-value solve withholds that whole run; no
// procedure reports defaulted decisions.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*trial.AnalysisResult, error) {
	start := time.Now()
	if s.regression == nil {
		return nil, core.NewDomainError("analysis", "no regression port configured")
	}
	if err := req.Data.Validate(); err != nil {
		return nil, err
	}
	if !(req.Alpha > 0 && req.Alpha < 1) {
		return nil, core.ErrAlphaOutOfRange
	}
	if req.Digits < 1 {
		return nil, core.NewDomainError("digits", "must be at least 1")
	}

	fit, err := s.regression.FitStratified(ctx, req.Data)
	if err != nil {
		return nil, err
	}

	correlations, err := trial.CorrelationsFromCovariance(fit.Covariance)
	if err != nil {
		return nil, err
	}

	overallA := summarize(fit.OverallA)
	simpleA := summarize(fit.SimpleA)
	simpleAB := summarize(fit.SimpleAB)
	observed := trial.PValueTriple{
		OverallA: overallA.PValue,
		SimpleA:  simpleA.PValue,
		SimpleAB: simpleAB.PValue,
	}

	procedures := make([]trial.ProcedureAnalysis, 0, 3)
	for i, proc := range trial.Procedures() {
		cfg := design.DefaultSolverConfig(req.Seed + int64(i)*seedStride)
		if req.Solver != nil {
			cfg = *req.Solver
			cfg.Integration.Seed = req.Seed + int64(i)*seedStride
		}
		critical, err := design.SolveCriticalValues(proc, correlations, req.Alpha, req.Digits, cfg)
		if err != nil {
			return nil, err
		}
		procedures = append(procedures, trial.ProcedureAnalysis{
			Procedure:      proc,
			CriticalValues: critical,
			Decisions:      trial.ApplyDecisions(critical, observed),
		})
	}

	return &trial.AnalysisResult{
		OverallA:     overallA,
		SimpleA:      simpleA,
		SimpleAB:     simpleAB,
		Correlations: correlations,
		Procedures:   procedures,
		RuntimeMs:    time.Since(start).Milliseconds(),
	}, nil
}

// summarize turns one fitted contrast into hazard ratio, 95% confidence
// interval, and two-sided Wald p-value.
func summarize(e ports.Estimate) trial.EffectSummary {
	z975 := distuv.UnitNormal.Quantile(0.975)
	wald := math.Abs(e.LogHR) / e.StdErr
	return trial.EffectSummary{
		HazardRatio: math.Exp(e.LogHR),
		Lower:       math.Exp(e.LogHR - z975*e.StdErr),
		Upper:       math.Exp(e.LogHR + z975*e.StdErr),
		PValue:      2 * distuv.UnitNormal.CDF(-wald),
	}
}
