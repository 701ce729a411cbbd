package trial

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"fac2x2/domain/core"
)

func TestDefaultDesignCorrelations(t *testing.T) {
	c := DefaultDesignCorrelations()
	if math.Abs(c.OverallSimpleA-1/math.Sqrt2) > 1e-15 || math.Abs(c.OverallSimpleAB-1/math.Sqrt2) > 1e-15 {
		t.Fatalf("overall/simple correlations must default to 1/sqrt(2): %+v", c)
	}
	if c.SimpleASimpleAB != 0.5 {
		t.Fatalf("simple/simple correlation must default to 1/2: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestFullMatrix_Shape(t *testing.T) {
	m := DefaultDesignCorrelations().FullMatrix()
	for i := 0; i < 3; i++ {
		if m.At(i, i) != 1 {
			t.Fatalf("diagonal must be one")
		}
		for j := 0; j < 3; j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Fatalf("matrix must be symmetric")
			}
		}
	}
	if m.At(0, 1) != DefaultDesignCorrelations().OverallSimpleA {
		t.Fatalf("ordering must be (overall A, simple A, simple AB)")
	}
}

func TestCorrelationsFromCovariance(t *testing.T) {
	// covariance assembled from known correlations and standard errors must
	// invert back exactly
	se := []float64{0.0626, 0.0866, 0.0874}
	want := DefaultDesignCorrelations()
	corr := want.FullMatrix()
	cov := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			cov.SetSym(i, j, corr.At(i, j)*se[i]*se[j])
		}
	}

	got, err := CorrelationsFromCovariance(cov)
	if err != nil {
		t.Fatalf("from covariance: %v", err)
	}
	if math.Abs(got.OverallSimpleA-want.OverallSimpleA) > 1e-12 ||
		math.Abs(got.OverallSimpleAB-want.OverallSimpleAB) > 1e-12 ||
		math.Abs(got.SimpleASimpleAB-want.SimpleASimpleAB) > 1e-12 {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestCorrelationsFromCovariance_Errors(t *testing.T) {
	if _, err := CorrelationsFromCovariance(nil); !core.IsDomainError(err) {
		t.Fatalf("nil covariance: expected domain error, got %v", err)
	}
	if _, err := CorrelationsFromCovariance(mat.NewSymDense(2, nil)); !core.IsDomainError(err) {
		t.Fatalf("wrong dimension: expected domain error, got %v", err)
	}
	zeroVar := mat.NewSymDense(3, []float64{
		0, 0, 0,
		0, 1, 0.1,
		0, 0.1, 1,
	})
	if _, err := CorrelationsFromCovariance(zeroVar); !core.IsDomainError(err) {
		t.Fatalf("zero variance: expected domain error, got %v", err)
	}
}
