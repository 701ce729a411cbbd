package ports

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"fac2x2/domain/core"
)

// TrialData is the subject-level input of the analysis path: follow-up time,
// event indicator, the two treatment indicators, and optional pre-expanded
// numeric covariate rows.
type TrialData struct {
	FollowUp   []float64   `json:"follow_up"`
	Event      []bool      `json:"event"`
	TreatmentA []bool      `json:"treatment_a"`
	TreatmentB []bool      `json:"treatment_b"`
	Covariates [][]float64 `json:"covariates,omitempty"`
}

// Validate checks shape and ranges eagerly.
func (d TrialData) Validate() error {
	n := len(d.FollowUp)
	if n == 0 {
		return fmt.Errorf("%w: empty", core.ErrTrialData)
	}
	if len(d.Event) != n || len(d.TreatmentA) != n || len(d.TreatmentB) != n {
		return fmt.Errorf("%w: column lengths differ", core.ErrTrialData)
	}
	if d.Covariates != nil && len(d.Covariates) != n {
		return fmt.Errorf("%w: covariate rows differ from subject count", core.ErrTrialData)
	}
	for _, t := range d.FollowUp {
		if !(t > 0) {
			return fmt.Errorf("%w: follow-up must be positive", core.ErrTrialData)
		}
	}
	return nil
}

// Estimate is one fitted log hazard ratio with its standard error.
type Estimate struct {
	LogHR  float64 `json:"log_hr"`
	StdErr float64 `json:"std_err"`
}

// RegressionFit is the output of the external stratified proportional-hazards
// fit: the three contrast estimates and the 3x3 covariance of their log
// hazard ratio estimators, ordered (overall A, simple A, simple AB).
type RegressionFit struct {
	OverallA   Estimate
	SimpleA    Estimate
	SimpleAB   Estimate
	Covariance mat.Symmetric
}

// RegressionPort is the external collaborator that fits the stratified Cox
// model. The engine consumes only its summary output.
type RegressionPort interface {
	FitStratified(ctx context.Context, data TrialData) (RegressionFit, error)
}
