package trial

import (
	"math"
	"testing"

	"fac2x2/domain/core"
)

func validParams() DesignParams {
	return DesignParams{
		SampleSize:   4600,
		RateC:        0.0445,
		HazardRatios: HazardRatios{SimpleA: 0.80, SimpleB: 0.80, SimpleAB: 0.72},
		MinCensor:    4.0,
		MaxCensor:    8.4,
		Alpha:        0.05,
		Digits:       4,
		Correlations: DefaultDesignCorrelations(),
	}
}

func TestDesignParams_Validate(t *testing.T) {
	if err := validParams().Validate(); err != nil {
		t.Fatalf("reference params must validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*DesignParams)
	}{
		{"zero sample size", func(p *DesignParams) { p.SampleSize = 0 }},
		{"rate at one", func(p *DesignParams) { p.RateC = 1 }},
		{"negative hazard", func(p *DesignParams) { p.HazardRatios.SimpleAB = -0.5 }},
		{"inverted window", func(p *DesignParams) { p.MinCensor, p.MaxCensor = 8.4, 4.0 }},
		{"alpha at zero", func(p *DesignParams) { p.Alpha = 0 }},
		{"no digits", func(p *DesignParams) { p.Digits = 0 }},
		{"correlation above one", func(p *DesignParams) { p.Correlations.OverallSimpleA = 1.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			if err := p.Validate(); !core.IsDomainError(err) {
				t.Fatalf("expected domain error, got %v", err)
			}
		})
	}
}

func TestHazardRatios_OverallContrasts(t *testing.T) {
	hr := HazardRatios{SimpleA: 0.80, SimpleB: 0.80, SimpleAB: 0.72}
	// the overall A hazard ratio averages the A effect across B strata:
	// sqrt(hrA * hrAB / hrB)
	want := math.Log(math.Sqrt(0.80 * 0.72 / 0.80))
	if math.Abs(hr.OverallALogHR()-want) > 1e-12 {
		t.Fatalf("overall A log hazard ratio: want %.6f got %.6f", want, hr.OverallALogHR())
	}
	if math.Abs(hr.OverallALogHR()-hr.OverallBLogHR()) > 1e-12 {
		t.Fatalf("hrA == hrB must make the overall contrasts symmetric")
	}

	skew := HazardRatios{SimpleA: 0.70, SimpleB: 0.95, SimpleAB: 0.72}
	if skew.OverallALogHR() >= skew.OverallBLogHR() {
		t.Fatalf("the stronger treatment must carry the stronger overall contrast")
	}
}

func TestProcedure_Tests(t *testing.T) {
	cases := []struct {
		proc Procedure
		want []Hypothesis
	}{
		{ProcedureTwoThirdsOneThird, []Hypothesis{HypothesisOverallA, HypothesisSimpleAB}},
		{ProcedureEqualThirds, []Hypothesis{HypothesisOverallA, HypothesisSimpleA, HypothesisSimpleAB}},
		{ProcedureHalfHalf, []Hypothesis{HypothesisSimpleA, HypothesisSimpleAB}},
	}
	for _, tc := range cases {
		got := tc.proc.Tests()
		if len(got) != len(tc.want) {
			t.Fatalf("%s: want %d tested hypotheses, got %d", tc.proc, len(tc.want), len(got))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: position %d: want %s got %s", tc.proc, i, tc.want[i], got[i])
			}
		}
	}
	if Procedure("7/8-1/8").Valid() {
		t.Fatalf("unknown procedure must not validate")
	}
}

func TestArmEventProbabilities_ExpectedEvents(t *testing.T) {
	probs := ArmEventProbabilities{Average: 0.2}
	if got := probs.ExpectedEvents(1000); got != 200 {
		t.Fatalf("expected events: want 200 got %v", got)
	}
}

func TestCriticalValueSet_Threshold(t *testing.T) {
	set := CriticalValueSet{
		Procedure: ProcedureTwoThirdsOneThird,
		OverallA:  0.0333,
		SimpleAB:  0.0245,
	}
	if p, ok := set.Threshold(HypothesisOverallA); !ok || p != 0.0333 {
		t.Fatalf("overall A threshold: got %v ok=%v", p, ok)
	}
	if _, ok := set.Threshold(HypothesisSimpleA); ok {
		t.Fatalf("simple A is untested under 2/3-1/3 and must report no threshold")
	}
}
