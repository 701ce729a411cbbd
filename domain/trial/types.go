// Package trial holds the value records of the two-by-two factorial
// time-to-event design: treatment arms, hypotheses, closed testing procedures,
// design parameters, and the result shapes produced by the engines. Everything
// here is an immutable record passed by value; nothing outlives a single
// design or analysis call.
package trial

import (
	"math"

	"fac2x2/domain/core"
)

// Hypothesis identifies one of the three tested treatment contrasts.
type Hypothesis string

const (
	// HypothesisOverallA compares all A-treated subjects (A alone + AB)
	// against all non-A subjects (C + B), stratified by B.
	HypothesisOverallA Hypothesis = "overall_a"
	// HypothesisSimpleA compares A alone against control.
	HypothesisSimpleA Hypothesis = "simple_a"
	// HypothesisSimpleAB compares combined treatment against control.
	HypothesisSimpleAB Hypothesis = "simple_ab"
)

// Procedure is one of the three closed multiple-testing procedures. The name
// encodes the significance-level weighting of its tested hypotheses.
type Procedure string

const (
	// ProcedureTwoThirdsOneThird tests overall A at 2/3 of alpha and simple AB
	// at the remainder; simple A is untested.
	ProcedureTwoThirdsOneThird Procedure = "2/3-1/3"
	// ProcedureEqualThirds tests all three hypotheses with equal weighting.
	ProcedureEqualThirds Procedure = "1/3-1/3-1/3"
	// ProcedureHalfHalf tests the two simple effects only.
	ProcedureHalfHalf Procedure = "1/2-1/2"
)

// Procedures returns the three procedures in their canonical reporting order.
func Procedures() []Procedure {
	return []Procedure{ProcedureTwoThirdsOneThird, ProcedureEqualThirds, ProcedureHalfHalf}
}

// Valid reports whether p names a known procedure.
func (p Procedure) Valid() bool {
	switch p {
	case ProcedureTwoThirdsOneThird, ProcedureEqualThirds, ProcedureHalfHalf:
		return true
	}
	return false
}

// Tests returns the hypotheses the procedure evaluates, in the fixed ordering
// (overall A, simple A, simple AB) restricted to the tested subset.
func (p Procedure) Tests() []Hypothesis {
	switch p {
	case ProcedureTwoThirdsOneThird:
		return []Hypothesis{HypothesisOverallA, HypothesisSimpleAB}
	case ProcedureEqualThirds:
		return []Hypothesis{HypothesisOverallA, HypothesisSimpleA, HypothesisSimpleAB}
	case ProcedureHalfHalf:
		return []Hypothesis{HypothesisSimpleA, HypothesisSimpleAB}
	}
	return nil
}

// HazardRatios holds the three design hazard ratios relative to control.
type HazardRatios struct {
	SimpleA  float64 `json:"simple_a"`
	SimpleB  float64 `json:"simple_b"`
	SimpleAB float64 `json:"simple_ab"`
}

// Validate rejects non-positive hazard ratios.
func (h HazardRatios) Validate() error {
	for _, hr := range []float64{h.SimpleA, h.SimpleB, h.SimpleAB} {
		if !(hr > 0) || math.IsInf(hr, 1) {
			return core.ErrHazardRatioInvalid
		}
	}
	return nil
}

// OverallALogHR is the log hazard ratio of the overall A contrast under the
// stratified model: the average of the A-vs-C effect within the no-B stratum
// and the AB-vs-B effect within the B stratum.
func (h HazardRatios) OverallALogHR() float64 {
	return (math.Log(h.SimpleA) + math.Log(h.SimpleAB) - math.Log(h.SimpleB)) / 2
}

// OverallBLogHR is the symmetric overall B contrast.
func (h HazardRatios) OverallBLogHR() float64 {
	return (math.Log(h.SimpleB) + math.Log(h.SimpleAB) - math.Log(h.SimpleA)) / 2
}

// DesignParams collects the scalar inputs of a design-mode invocation.
type DesignParams struct {
	SampleSize   int               `json:"sample_size"`
	RateC        float64           `json:"rate_c"` // control-arm one-year event rate
	HazardRatios HazardRatios      `json:"hazard_ratios"`
	MinCensor    float64           `json:"min_censor"`
	MaxCensor    float64           `json:"max_censor"`
	Alpha        float64           `json:"alpha"`  // two-sided family-wise level
	Digits       int               `json:"digits"` // critical values floored to this many decimals
	Correlations CorrelationTriple `json:"correlations"`
}

// Validate checks every scalar range eagerly, before any computation starts.
func (p DesignParams) Validate() error {
	if p.SampleSize <= 0 {
		return core.ErrSampleSize
	}
	if !(p.RateC > 0 && p.RateC < 1) {
		return core.ErrRateOutOfRange
	}
	if err := p.HazardRatios.Validate(); err != nil {
		return err
	}
	if !(p.MinCensor > 0) || p.MinCensor > p.MaxCensor {
		return core.ErrCensoringWindow
	}
	if !(p.Alpha > 0 && p.Alpha < 1) {
		return core.ErrAlphaOutOfRange
	}
	if p.Digits < 1 {
		return core.NewDomainError("digits", "must be at least 1")
	}
	return p.Correlations.Validate()
}

// ArmEventProbabilities holds the event probability of each arm plus the
// accrual-weighted average driving the stratified log-rank information.
// Derived quantities, recomputed on each design query.
type ArmEventProbabilities struct {
	Control float64 `json:"control"`
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	AB      float64 `json:"ab"`
	Average float64 `json:"average"`
}

// ExpectedEvents is the expected event count across the whole trial.
func (a ArmEventProbabilities) ExpectedEvents(sampleSize int) float64 {
	return float64(sampleSize) * a.Average
}

// PValueTriple carries the three observed two-sided p-values in analysis mode.
type PValueTriple struct {
	OverallA float64 `json:"overall_a"`
	SimpleA  float64 `json:"simple_a"`
	SimpleAB float64 `json:"simple_ab"`
}

// Value returns the p-value for one hypothesis.
func (p PValueTriple) Value(h Hypothesis) float64 {
	switch h {
	case HypothesisOverallA:
		return p.OverallA
	case HypothesisSimpleA:
		return p.SimpleA
	}
	return p.SimpleAB
}

// CriticalValueSet holds one two-sided p-value threshold per tested hypothesis
// of a procedure. Untested hypotheses carry a zero threshold and are reported
// as such by Threshold. Never mutated after solving.
type CriticalValueSet struct {
	Procedure Procedure `json:"procedure"`
	OverallA  float64   `json:"overall_a,omitempty"`
	SimpleA   float64   `json:"simple_a,omitempty"`
	SimpleAB  float64   `json:"simple_ab,omitempty"`

	// AchievedAlpha is the family-wise rejection probability evaluated at the
	// solved (pre-rounding) thresholds; ErrEstimate bounds its integration
	// error. Diagnostics only, not consumed downstream.
	AchievedAlpha float64 `json:"achieved_alpha"`
	ErrEstimate   float64 `json:"err_estimate"`
}

// Threshold returns the critical value for h and whether h is tested by the
// procedure at all.
func (s CriticalValueSet) Threshold(h Hypothesis) (float64, bool) {
	for _, tested := range s.Procedure.Tests() {
		if tested != h {
			continue
		}
		switch h {
		case HypothesisOverallA:
			return s.OverallA, true
		case HypothesisSimpleA:
			return s.SimpleA, true
		case HypothesisSimpleAB:
			return s.SimpleAB, true
		}
	}
	return 0, false
}
