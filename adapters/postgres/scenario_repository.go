package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fac2x2/domain/core"
	"fac2x2/domain/trial"
	"fac2x2/ports"
)

// ScenarioRepositoryImpl implements ScenarioRepository for PostgreSQL
type ScenarioRepositoryImpl struct {
	db *sqlx.DB
}

// NewScenarioRepository creates a new PostgreSQL scenario repository
func NewScenarioRepository(db *sqlx.DB) ports.ScenarioRepository {
	return &ScenarioRepositoryImpl{db: db}
}

// EnsureSchema creates the design_scenarios table if it does not exist
func (r *ScenarioRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS design_scenarios (
			id UUID PRIMARY KEY,
			sample_size INT NOT NULL,
			alpha DOUBLE PRECISION NOT NULL,
			seed BIGINT NOT NULL,
			power_overall_a DOUBLE PRECISION NOT NULL,
			expected_events DOUBLE PRECISION NOT NULL,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create design_scenarios table: %w", err)
	}
	return nil
}

// SaveDesign stores a design result keyed by its scenario ID
func (r *ScenarioRepositoryImpl) SaveDesign(ctx context.Context, result *trial.DesignResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal design result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO design_scenarios (
			id, sample_size, alpha, seed, power_overall_a, expected_events, result
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			sample_size = EXCLUDED.sample_size,
			alpha = EXCLUDED.alpha,
			seed = EXCLUDED.seed,
			power_overall_a = EXCLUDED.power_overall_a,
			expected_events = EXCLUDED.expected_events,
			result = EXCLUDED.result`,
		result.ScenarioID.String(),
		result.Params.SampleSize,
		result.Params.Alpha,
		result.Seed,
		result.PowerOverallA,
		result.ExpectedEvents,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save design scenario: %w", err)
	}
	return nil
}

// GetDesign loads one stored design result
func (r *ScenarioRepositoryImpl) GetDesign(ctx context.Context, id core.ScenarioID) (*trial.DesignResult, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT result FROM design_scenarios WHERE id = $1`, id.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, core.ErrScenarioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load design scenario: %w", err)
	}

	var result trial.DesignResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design scenario: %w", err)
	}
	return &result, nil
}

// ListDesigns returns the most recent design results, newest first
func (r *ScenarioRepositoryImpl) ListDesigns(ctx context.Context, limit int) ([]*trial.DesignResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT result FROM design_scenarios ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list design scenarios: %w", err)
	}
	defer rows.Close()

	var results []*trial.DesignResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan design scenario: %w", err)
		}
		var result trial.DesignResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal design scenario: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
