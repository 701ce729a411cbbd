// Package testkit provides the canonical worked-example fixtures used across
// tests and demo surfaces: the published 4600-subject factorial design and a
// stub of the external stratified Cox fit with its documented estimates.
package testkit

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"fac2x2/domain/trial"
	"fac2x2/ports"
)

// CanonicalDesignParams returns the reference design scenario: 4600 subjects,
// a 4.45% control one-year event rate, hazard ratios 0.80/0.80/0.72, accrual
// window 4.0 to 8.4 years, two-sided alpha 0.05.
func CanonicalDesignParams() trial.DesignParams {
	return trial.DesignParams{
		SampleSize: 4600,
		RateC:      0.0445,
		HazardRatios: trial.HazardRatios{
			SimpleA:  0.80,
			SimpleB:  0.80,
			SimpleAB: 0.72,
		},
		MinCensor:    4.0,
		MaxCensor:    8.4,
		Alpha:        0.05,
		Digits:       4,
		Correlations: trial.DefaultDesignCorrelations(),
	}
}

// CanonicalFit returns the documented analysis-mode fit of the same trial:
// hazard ratios 0.8895 (overall A), 0.8096 (simple A), 0.7583 (simple AB)
// with standard errors chosen to reproduce the published two-sided p-values
// 0.0614, 0.0147, and 0.00155. The covariance is assembled from the design
// correlations, which the fitted correlations match closely in this trial.
func CanonicalFit() ports.RegressionFit {
	estimates := []ports.Estimate{
		{LogHR: math.Log(0.8895), StdErr: 0.062601},
		{LogHR: math.Log(0.8096), StdErr: 0.086560},
		{LogHR: math.Log(0.7583), StdErr: 0.087422},
	}
	corr := trial.DefaultDesignCorrelations().FullMatrix()
	cov := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			cov.SetSym(i, j, corr.At(i, j)*estimates[i].StdErr*estimates[j].StdErr)
		}
	}
	return ports.RegressionFit{
		OverallA:   estimates[0],
		SimpleA:    estimates[1],
		SimpleAB:   estimates[2],
		Covariance: cov,
	}
}

// StubRegression implements ports.RegressionPort with a fixed fit, standing
// in for the external stratified Cox collaborator.
type StubRegression struct {
	Fit ports.RegressionFit
}

// NewStubRegression returns a stub carrying the canonical fit.
func NewStubRegression() *StubRegression {
	return &StubRegression{Fit: CanonicalFit()}
}

// FitStratified returns the canned fit after validating the data shape.
func (s *StubRegression) FitStratified(_ context.Context, data ports.TrialData) (ports.RegressionFit, error) {
	if err := data.Validate(); err != nil {
		return ports.RegressionFit{}, err
	}
	return s.Fit, nil
}

// GenerateTrialData synthesizes a balanced factorial dataset with exponential
// event times and uniform censoring, for exercising the analysis path
// end to end. Deterministic for a given seed.
func GenerateTrialData(seed int64, n int) ports.TrialData {
	rng := rand.New(rand.NewSource(seed))
	params := CanonicalDesignParams()
	lambdaC := -math.Log(1 - params.RateC)

	data := ports.TrialData{
		FollowUp:   make([]float64, n),
		Event:      make([]bool, n),
		TreatmentA: make([]bool, n),
		TreatmentB: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		arm := i % 4
		a := arm == 1 || arm == 3
		b := arm == 2 || arm == 3
		hr := 1.0
		switch {
		case a && b:
			hr = params.HazardRatios.SimpleAB
		case a:
			hr = params.HazardRatios.SimpleA
		case b:
			hr = params.HazardRatios.SimpleB
		}
		eventTime := rng.ExpFloat64() / (lambdaC * hr)
		censorTime := params.MinCensor + rng.Float64()*(params.MaxCensor-params.MinCensor)
		data.TreatmentA[i] = a
		data.TreatmentB[i] = b
		if eventTime <= censorTime {
			data.FollowUp[i] = eventTime
			data.Event[i] = true
		} else {
			data.FollowUp[i] = censorTime
		}
	}
	return data
}
