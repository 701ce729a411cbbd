package ports

import (
	"context"

	"fac2x2/domain/core"
	"fac2x2/domain/trial"
)

// ScenarioRepository persists completed design runs for later retrieval.
// Persistence is optional; services accept a nil repository.
type ScenarioRepository interface {
	// SaveDesign stores a design result under its scenario ID.
	SaveDesign(ctx context.Context, result *trial.DesignResult) error

	// GetDesign loads one stored result, or core.ErrScenarioNotFound.
	GetDesign(ctx context.Context, id core.ScenarioID) (*trial.DesignResult, error)

	// ListDesigns returns the most recent results, newest first.
	ListDesigns(ctx context.Context, limit int) ([]*trial.DesignResult, error)
}
