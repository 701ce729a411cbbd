package trial

import (
	"fac2x2/domain/core"
)

// ProcedureDesign pairs a procedure's solved critical values with its power
// under the assumed alternative.
type ProcedureDesign struct {
	Procedure      Procedure        `json:"procedure"`
	CriticalValues CriticalValueSet `json:"critical_values"`
	Power          float64          `json:"power"`
}

// DesignResult is the fixed-shape output of one design-mode invocation.
type DesignResult struct {
	ScenarioID     core.ScenarioID       `json:"scenario_id"`
	Params         DesignParams          `json:"params"`
	Seed           int64                 `json:"seed"`
	Events         ArmEventProbabilities `json:"event_probabilities"`
	ExpectedEvents float64               `json:"expected_events"`
	PowerOverallA  float64               `json:"power_overall_a"`
	PowerOverallB  float64               `json:"power_overall_b"`
	Procedures     []ProcedureDesign     `json:"procedures"`
	RuntimeMs      int64                 `json:"runtime_ms"`
}

// ProcedurePower returns the power of one procedure from the result, or false
// if the result does not carry it.
func (r *DesignResult) ProcedurePower(p Procedure) (float64, bool) {
	for _, pd := range r.Procedures {
		if pd.Procedure == p {
			return pd.Power, true
		}
	}
	return 0, false
}

// EffectSummary reports one fitted treatment contrast: hazard ratio, 95%
// confidence interval, and two-sided p-value.
type EffectSummary struct {
	HazardRatio float64 `json:"hazard_ratio"`
	Lower       float64 `json:"ci_lower"`
	Upper       float64 `json:"ci_upper"`
	PValue      float64 `json:"p_value"`
}

// ProcedureAnalysis pairs a procedure's critical values with the decisions
// they imply for the observed p-values.
type ProcedureAnalysis struct {
	Procedure      Procedure        `json:"procedure"`
	CriticalValues CriticalValueSet `json:"critical_values"`
	Decisions      DecisionSet      `json:"decisions"`
}

// AnalysisResult is the fixed-shape output of one analysis-mode invocation.
type AnalysisResult struct {
	OverallA     EffectSummary       `json:"overall_a"`
	SimpleA      EffectSummary       `json:"simple_a"`
	SimpleAB     EffectSummary       `json:"simple_ab"`
	Correlations CorrelationTriple   `json:"correlations"`
	Procedures   []ProcedureAnalysis `json:"procedures"`
	RuntimeMs    int64               `json:"runtime_ms"`
}
