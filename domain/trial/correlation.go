package trial

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"fac2x2/domain/core"
)

// CorrelationTriple holds the pairwise correlations among the overall A,
// simple A, and simple AB Wald statistics.
type CorrelationTriple struct {
	// OverallSimpleA is the correlation between the overall A and simple A
	// statistics (corAa in the design literature).
	OverallSimpleA float64 `json:"overall_simple_a"`
	// OverallSimpleAB is the correlation between overall A and simple AB (corAab).
	OverallSimpleAB float64 `json:"overall_simple_ab"`
	// SimpleASimpleAB is the correlation between the two simple effects (coraab).
	SimpleASimpleAB float64 `json:"simple_a_simple_ab"`
}

// DefaultDesignCorrelations returns the design-mode constants implied by the
// shared-control overlap under balanced 1:1:1:1 allocation.
func DefaultDesignCorrelations() CorrelationTriple {
	return CorrelationTriple{
		OverallSimpleA:  1 / math.Sqrt2,
		OverallSimpleAB: 1 / math.Sqrt2,
		SimpleASimpleAB: 0.5,
	}
}

// Validate rejects entries outside [-1,1]. Positive semi-definiteness is the
// caller's responsibility; the solver surfaces a failure if the matrix does
// not factor.
func (c CorrelationTriple) Validate() error {
	for _, r := range []float64{c.OverallSimpleA, c.OverallSimpleAB, c.SimpleASimpleAB} {
		if math.IsNaN(r) || r < -1 || r > 1 {
			return core.ErrCorrelationMatrix
		}
	}
	return nil
}

// FullMatrix assembles the 3x3 correlation matrix in the fixed ordering
// (overall A, simple A, simple AB).
func (c CorrelationTriple) FullMatrix() *mat.SymDense {
	m := mat.NewSymDense(3, nil)
	m.SetSym(0, 0, 1)
	m.SetSym(1, 1, 1)
	m.SetSym(2, 2, 1)
	m.SetSym(0, 1, c.OverallSimpleA)
	m.SetSym(0, 2, c.OverallSimpleAB)
	m.SetSym(1, 2, c.SimpleASimpleAB)
	return m
}

// PairMatrix builds a 2x2 correlation matrix for a single pair.
func PairMatrix(rho float64) *mat.SymDense {
	m := mat.NewSymDense(2, nil)
	m.SetSym(0, 0, 1)
	m.SetSym(1, 1, 1)
	m.SetSym(0, 1, rho)
	return m
}

// CorrelationsFromCovariance derives the Wald-statistic correlations from the
// fitted covariance of the three log hazard ratio estimators, ordered
// (overall A, simple A, simple AB). The standard ratio of covariance to the
// product of standard errors; the result is passed through unchecked beyond
// the [-1,1] entry check, per the estimation contract.
func CorrelationsFromCovariance(cov mat.Symmetric) (CorrelationTriple, error) {
	if cov == nil || cov.SymmetricDim() != 3 {
		return CorrelationTriple{}, core.NewDomainError("covariance", "must be 3x3")
	}
	se := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v := cov.At(i, i)
		if !(v > 0) {
			return CorrelationTriple{}, core.NewDomainError("covariance", "non-positive variance on diagonal")
		}
		se[i] = math.Sqrt(v)
	}
	c := CorrelationTriple{
		OverallSimpleA:  cov.At(0, 1) / (se[0] * se[1]),
		OverallSimpleAB: cov.At(0, 2) / (se[0] * se[2]),
		SimpleASimpleAB: cov.At(1, 2) / (se[1] * se[2]),
	}
	if err := c.Validate(); err != nil {
		return CorrelationTriple{}, err
	}
	return c, nil
}
