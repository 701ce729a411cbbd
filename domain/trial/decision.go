package trial

// Decision is the accept/reject label for one tested hypothesis.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Decide applies a solved critical value to an observed two-sided p-value.
// Reject iff the p-value does not exceed the threshold.
func Decide(pValue, criticalValue float64) Decision {
	if pValue <= criticalValue {
		return DecisionReject
	}
	return DecisionAccept
}

// DecisionSet holds the per-hypothesis conclusions of one procedure.
// Hypotheses the procedure does not test carry an empty Decision.
type DecisionSet struct {
	Procedure Procedure `json:"procedure"`
	OverallA  Decision  `json:"overall_a,omitempty"`
	SimpleA   Decision  `json:"simple_a,omitempty"`
	SimpleAB  Decision  `json:"simple_ab,omitempty"`
}

// ApplyDecisions evaluates every hypothesis the procedure tests against the
// observed p-values. Untested hypotheses produce no decision.
func ApplyDecisions(critical CriticalValueSet, observed PValueTriple) DecisionSet {
	out := DecisionSet{Procedure: critical.Procedure}
	for _, h := range critical.Procedure.Tests() {
		threshold, ok := critical.Threshold(h)
		if !ok {
			continue
		}
		d := Decide(observed.Value(h), threshold)
		switch h {
		case HypothesisOverallA:
			out.OverallA = d
		case HypothesisSimpleA:
			out.SimpleA = d
		case HypothesisSimpleAB:
			out.SimpleAB = d
		}
	}
	return out
}
