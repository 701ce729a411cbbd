package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors (detected eagerly at component entry)
	ErrDomain             = errors.New("invalid input")
	ErrRateOutOfRange     = fmt.Errorf("%w: event rate outside (0,1)", ErrDomain)
	ErrHazardRatioInvalid = fmt.Errorf("%w: hazard ratio must be positive", ErrDomain)
	ErrCensoringWindow    = fmt.Errorf("%w: censoring window", ErrDomain)
	ErrAlphaOutOfRange    = fmt.Errorf("%w: alpha outside (0,1)", ErrDomain)
	ErrCorrelationMatrix  = fmt.Errorf("%w: correlation matrix", ErrDomain)
	ErrProcedureUnknown   = fmt.Errorf("%w: unknown testing procedure", ErrDomain)
	ErrSampleSize         = fmt.Errorf("%w: sample size must be positive", ErrDomain)
	ErrTrialData          = fmt.Errorf("%w: trial data", ErrDomain)

	// Numerical failure errors
	ErrConvergence = errors.New("convergence failure")

	// Repository errors
	ErrNotFound         = errors.New("resource not found")
	ErrScenarioNotFound = fmt.Errorf("%w: scenario", ErrNotFound)
)

// ConvergenceError reports a root-find or integration that did not reach the
// requested tolerance within its iteration budget. The last achieved value and
// its error estimate are carried so the caller can decide whether to re-invoke
// with a larger budget; no automatic retry happens here.
type ConvergenceError struct {
	Stage       string
	LastValue   float64
	ErrEstimate float64
	Evaluations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %v after %d evaluations (last value %.6g, error estimate %.3g)",
		e.Stage, ErrConvergence, e.Evaluations, e.LastValue, e.ErrEstimate)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

// Error constructors with context
func NewDomainError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrDomain, field, reason)
}

func NewConvergenceError(stage string, lastValue, errEstimate float64, evaluations int) error {
	return &ConvergenceError{
		Stage:       stage,
		LastValue:   lastValue,
		ErrEstimate: errEstimate,
		Evaluations: evaluations,
	}
}

// Error checking helpers
func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}

func IsConvergenceError(err error) bool {
	return errors.Is(err, ErrConvergence)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
