package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/apitrail/apitrail/internal/models"
)

// ProjectStore handles the project-level reads the run path depends on:
// the current environment's base URL and the project-wide global params.
type ProjectStore struct {
	Base
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(base Base) *ProjectStore {
	return &ProjectStore{Base: base}
}

// currentBaseURL resolves the base URL of the project's currently selected
// environment.
func currentBaseURL(ctx context.Context, tx querier, projectID int64) (string, error) {
	var baseURL string

	err := tx.QueryRow(ctx, `
		SELECT e.env_baseurl
		FROM projects p
		JOIN project_envs e ON e.project_id = p.project_id AND e.env_type = p.project_current_type
		WHERE p.project_id = $1`,
		projectID,
	).Scan(&baseURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrProjectEnvNotFound
		}

		return "", fmt.Errorf("resolving project base URL: %w", err)
	}

	return baseURL, nil
}

// CurrentBaseURL resolves the base URL of the project's current environment.
func (s *ProjectStore) CurrentBaseURL(ctx context.Context, projectID int64) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return currentBaseURL(ctx, s.Pool, projectID)
}

// GlobalParams returns the project-wide parameters merged into every run.
func (s *ProjectStore) GlobalParams(ctx context.Context, projectID int64) ([]models.GlobalParam, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT param_id, project_id, father_type, param_name, param_type, param_value, param_desc
		FROM global_params
		WHERE project_id = $1
		ORDER BY param_id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying global params: %w", err)
	}
	defer rows.Close()

	var params []models.GlobalParam

	for rows.Next() {
		var p models.GlobalParam
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Scope, &p.ParamName, &p.ParamType, &p.ParamValue, &p.ParamDesc); err != nil {
			return nil, fmt.Errorf("scanning global param: %w", err)
		}

		params = append(params, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating global params: %w", err)
	}

	return params, nil
}
