package design

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"fac2x2/domain/core"
	"fac2x2/domain/trial"
	"fac2x2/internal/mvnorm"
)

// PowerInputs collects everything the power engine needs for one procedure:
// the design scale, the assumed hazard ratios, the arm event probabilities,
// the solved critical values, and the correlation structure. All cross-
// component dependencies are explicit values here; substituting a different
// event-probability or correlation model is plain value substitution.
type PowerInputs struct {
	SampleSize     int
	HazardRatios   trial.HazardRatios
	Events         trial.ArmEventProbabilities
	Correlations   trial.CorrelationTriple
	CriticalValues trial.CriticalValueSet
}

// ProcedurePower computes the probability that the procedure rejects at least
// one tested hypothesis under the assumed alternative: the joint distribution
// keeps the null correlation matrix while each statistic's mean shifts by its
// non-centrality.
func ProcedurePower(in PowerInputs, cfg mvnorm.Config) (float64, error) {
	if in.SampleSize <= 0 {
		return 0, core.ErrSampleSize
	}
	if err := in.HazardRatios.Validate(); err != nil {
		return 0, err
	}
	if err := in.Correlations.Validate(); err != nil {
		return 0, err
	}
	proc := in.CriticalValues.Procedure
	tests := proc.Tests()
	if len(tests) == 0 {
		return 0, core.ErrProcedureUnknown
	}

	thresholds := make([]float64, 0, len(tests))
	shift := make([]float64, 0, len(tests))
	for _, h := range tests {
		p, ok := in.CriticalValues.Threshold(h)
		if !ok || !(p > 0 && p < 1) {
			return 0, core.NewDomainError("critical values", "missing threshold for tested hypothesis")
		}
		thresholds = append(thresholds, zFromP(p))
		shift = append(shift, in.noncentrality(h))
	}

	var corr = in.Correlations
	switch proc {
	case trial.ProcedureTwoThirdsOneThird:
		res, err := mvnorm.ExceedProb(thresholds, shift, trial.PairMatrix(corr.OverallSimpleAB), cfg)
		return res.Prob, err
	case trial.ProcedureEqualThirds:
		res, err := mvnorm.ExceedProb(thresholds, shift, corr.FullMatrix(), cfg)
		return res.Prob, err
	case trial.ProcedureHalfHalf:
		res, err := mvnorm.ExceedProb(thresholds, shift, trial.PairMatrix(corr.SimpleASimpleAB), cfg)
		return res.Prob, err
	}
	return 0, core.ErrProcedureUnknown
}

// OverallPowerA is the power of the two-sided overall A test alone at level
// alpha. A univariate normal tail, no joint integration involved.
func OverallPowerA(sampleSize int, hr trial.HazardRatios, events trial.ArmEventProbabilities, alpha float64) (float64, error) {
	return overallPower(sampleSize, hr.OverallALogHR(), events, alpha)
}

// OverallPowerB is the symmetric overall B power.
func OverallPowerB(sampleSize int, hr trial.HazardRatios, events trial.ArmEventProbabilities, alpha float64) (float64, error) {
	return overallPower(sampleSize, hr.OverallBLogHR(), events, alpha)
}

func overallPower(sampleSize int, logHR float64, events trial.ArmEventProbabilities, alpha float64) (float64, error) {
	if sampleSize <= 0 {
		return 0, core.ErrSampleSize
	}
	if !(alpha > 0 && alpha < 1) {
		return 0, core.ErrAlphaOutOfRange
	}
	zeta := overallShift(logHR, sampleSize, events.Average)
	return twoSidedPower(zeta, zFromP(alpha)), nil
}

// noncentrality is the mean shift of one Wald statistic under the assumed
// hazard ratios: log hazard ratio times the square root of the expected
// statistical information, which for a balanced two-group log-rank comparison
// is a quarter of the expected events in the compared groups.
func (in PowerInputs) noncentrality(h trial.Hypothesis) float64 {
	hr := in.HazardRatios
	ev := in.Events
	switch h {
	case trial.HypothesisOverallA:
		return overallShift(hr.OverallALogHR(), in.SampleSize, ev.Average)
	case trial.HypothesisSimpleA:
		return simpleShift(math.Log(hr.SimpleA), in.SampleSize, ev.A, ev.Control)
	case trial.HypothesisSimpleAB:
		return simpleShift(math.Log(hr.SimpleAB), in.SampleSize, ev.AB, ev.Control)
	}
	return 0
}

// overallShift: the overall contrast splits the full sample in half, so the
// expected events are n times the four-arm average probability.
func overallShift(logHR float64, sampleSize int, avgProb float64) float64 {
	return logHR * math.Sqrt(float64(sampleSize)*avgProb) / 2
}

// simpleShift: a simple contrast involves half the sample (the arm and the
// control, each a quarter of the trial).
func simpleShift(logHR float64, sampleSize int, armProb, controlProb float64) float64 {
	return logHR * math.Sqrt(float64(sampleSize)*(armProb+controlProb)/4) / 2
}

// twoSidedPower is P(|Z + zeta| > z) for standard normal Z.
func twoSidedPower(zeta, z float64) float64 {
	return distuv.UnitNormal.CDF(-z-zeta) + distuv.UnitNormal.CDF(-z+zeta)
}
