// Package survival models arm event probabilities for a trial with
// exponential event times and staggered accrual against a fixed end date,
// which makes the censoring time uniform between the shortest and longest
// follow-up. Everything is closed form; no simulation.
package survival

import (
	"math"

	"fac2x2/domain/core"
	"fac2x2/domain/trial"
)

// EventProbability returns the probability that a subject in an arm with the
// given hazard ratio to control experiences the event before censoring.
//
// The control hazard is implied by the one-year event rate,
// lambda = -ln(1-rateC) * hazardRatio, and the censoring time C is uniform on
// [minCensor, maxCensor]. The result is E[1 - exp(-lambda*C)], integrated
// exactly:
//
//	1 + (exp(-lambda*max) - exp(-lambda*min)) / (lambda*(max-min))
func EventProbability(rateC, hazardRatio, minCensor, maxCensor float64) (float64, error) {
	if !(rateC > 0 && rateC < 1) {
		return 0, core.ErrRateOutOfRange
	}
	if !(hazardRatio > 0) || math.IsInf(hazardRatio, 1) {
		return 0, core.ErrHazardRatioInvalid
	}
	if !(minCensor > 0) || minCensor > maxCensor {
		return 0, core.ErrCensoringWindow
	}
	lambda := -math.Log(1-rateC) * hazardRatio
	if minCensor == maxCensor {
		return 1 - math.Exp(-lambda*minCensor), nil
	}
	width := maxCensor - minCensor
	return 1 + (math.Exp(-lambda*maxCensor)-math.Exp(-lambda*minCensor))/(lambda*width), nil
}

// ArmProbabilities evaluates all four arms and the equal-allocation average
// used as the single effective event probability of the stratified log-rank
// statistic.
func ArmProbabilities(rateC float64, hr trial.HazardRatios, minCensor, maxCensor float64) (trial.ArmEventProbabilities, error) {
	if err := hr.Validate(); err != nil {
		return trial.ArmEventProbabilities{}, err
	}
	probC, err := EventProbability(rateC, 1, minCensor, maxCensor)
	if err != nil {
		return trial.ArmEventProbabilities{}, err
	}
	probA, err := EventProbability(rateC, hr.SimpleA, minCensor, maxCensor)
	if err != nil {
		return trial.ArmEventProbabilities{}, err
	}
	probB, err := EventProbability(rateC, hr.SimpleB, minCensor, maxCensor)
	if err != nil {
		return trial.ArmEventProbabilities{}, err
	}
	probAB, err := EventProbability(rateC, hr.SimpleAB, minCensor, maxCensor)
	if err != nil {
		return trial.ArmEventProbabilities{}, err
	}
	return trial.ArmEventProbabilities{
		Control: probC,
		A:       probA,
		B:       probB,
		AB:      probAB,
		Average: (probC + probA + probB + probAB) / 4,
	}, nil
}
