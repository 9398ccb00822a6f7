package store

import (
	"context"
	"fmt"

	"github.com/apitrail/apitrail/internal/models"
)

// Tx-scoped primitives for the request-parameter aspect. One row per
// parameter, classed by where it is carried (query, form-data, urlencoded,
// cookie, header); at most one active row per (api, class, name).

// insertParams flattens the supplied groups into parameter rows tagged with
// the new version. Entries with an empty name are silently skipped.
// Returns the inserted names for the version summary.
func insertParams(
	ctx context.Context,
	tx querier,
	apiID, versionID int64,
	groups []models.ParamGroup,
) ([]string, error) {
	var names []string

	for _, g := range groups {
		for _, p := range g.Params {
			if p.ParamName == "" {
				continue
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO request_params (api_id, param_class, param_name, param_type, param_desc, version_id, active)
				VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
				apiID, g.Class, p.ParamName, p.ParamType, p.ParamDesc, versionID,
			)
			if err != nil {
				return nil, fmt.Errorf("inserting param %q: %w", p.ParamName, err)
			}

			names = append(names, p.ParamName)
		}
	}

	return names, nil
}

// deactivateParams marks all active parameter rows for the api inactive,
// retagging them with the superseding version. Returns the affected count.
func deactivateParams(ctx context.Context, tx querier, apiID, versionID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE request_params SET active = FALSE, version_id = $1
		WHERE api_id = $2 AND active`,
		versionID, apiID,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivating params: %w", err)
	}

	return tag.RowsAffected(), nil
}

// deleteActiveParams removes the active rows a version introduced.
func deleteActiveParams(ctx context.Context, tx querier, versionID int64) error {
	_, err := tx.Exec(ctx,
		"DELETE FROM request_params WHERE version_id = $1 AND active", versionID)
	if err != nil {
		return fmt.Errorf("deleting params of version %d: %w", versionID, err)
	}

	return nil
}

// reactivateParams flips the rows a version superseded back to active,
// retagging them with the prior version (nil when no history remains).
func reactivateParams(ctx context.Context, tx querier, versionID int64, prior *int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE request_params SET active = TRUE, version_id = $1
		WHERE version_id = $2 AND NOT active`,
		prior, versionID,
	)
	if err != nil {
		return fmt.Errorf("reactivating params of version %d: %w", versionID, err)
	}

	return nil
}

// activeParams returns the api's current parameters grouped by class, in
// class order. Classes with no parameters are omitted.
func activeParams(ctx context.Context, tx querier, apiID int64) ([]models.ParamGroup, error) {
	rows, err := tx.Query(ctx, `
		SELECT param_class, param_name, param_type, param_desc
		FROM request_params
		WHERE api_id = $1 AND active
		ORDER BY param_class, param_id`,
		apiID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying active params: %w", err)
	}
	defer rows.Close()

	var groups []models.ParamGroup

	for rows.Next() {
		var class models.ParamClass
		var p models.ParamPayload

		if err := rows.Scan(&class, &p.ParamName, &p.ParamType, &p.ParamDesc); err != nil {
			return nil, fmt.Errorf("scanning param row: %w", err)
		}

		if len(groups) == 0 || groups[len(groups)-1].Class != class {
			groups = append(groups, models.ParamGroup{Class: class})
		}

		last := len(groups) - 1
		groups[last].Params = append(groups[last].Params, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating param rows: %w", err)
	}

	return groups, nil
}
